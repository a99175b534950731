package hostapi

import (
	"github.com/echenim/bedrock/engine"
	"github.com/echenim/bedrock/primitives"
)

// StoreHost is an engine.HostInterface backed by a StateStore, for running
// ExecuteBlock natively (no WASM guest) against a real committed-state
// backend — MemStore or PebbleStateStore. Unlike MockHost, which holds
// committed state as a plain map for tests, StoreHost defers every
// committed-state read to the StateStore and only buffers writes locally
// in a StateOverlay, matching the layered-read pattern the sandbox's
// hostState uses for the WASM path.
type StoreHost struct {
	store         StateStore
	overlay       *primitives.StateOverlay
	gasMeter      *primitives.GasMeter
	context       primitives.ExecutionContext
	events        []primitives.Event
	logs          []primitives.LogLine
	maxEvents     uint32
	maxWriteBytes uint32
}

// NewStoreHost creates a StoreHost reading committed state from store.
func NewStoreHost(store StateStore, context primitives.ExecutionContext) *StoreHost {
	return &StoreHost{
		store:         store,
		overlay:       primitives.NewStateOverlay(),
		gasMeter:      primitives.NewGasMeter(context.GasLimit),
		context:       context,
		maxEvents:     context.MaxEvents,
		maxWriteBytes: context.MaxWriteBytes,
	}
}

var _ engine.HostInterface = (*StoreHost)(nil)

func (h *StoreHost) StateGet(key []byte) ([]byte, *primitives.ExecError) {
	if len(key) > primitives.MaxKeyLen {
		return nil, primitives.NewHostError(primitives.ErrKeyTooLarge)
	}
	res := h.overlay.Get(key)
	switch res.Kind {
	case primitives.OverlayFound:
		return res.Value, nil
	case primitives.OverlayDeleted:
		return nil, nil
	default:
		val, err := h.store.Get(key)
		if err != nil {
			return nil, primitives.NewHostError(primitives.ErrInternal)
		}
		return val, nil
	}
}

func (h *StoreHost) StateSet(key, value []byte) *primitives.ExecError {
	if len(key) == 0 || len(key) > primitives.MaxKeyLen {
		return primitives.NewHostError(primitives.ErrKeyTooLarge)
	}
	if len(value) > primitives.MaxValueLen {
		return primitives.NewHostError(primitives.ErrValueTooLarge)
	}
	projected := h.overlay.TotalWriteBytes() + uint64(len(key)+len(value))
	if projected > uint64(h.maxWriteBytes) {
		return primitives.NewHostError(primitives.ErrWriteLimit)
	}
	h.overlay.Set(key, value)
	return nil
}

func (h *StoreHost) StateDelete(key []byte) *primitives.ExecError {
	if len(key) == 0 || len(key) > primitives.MaxKeyLen {
		return primitives.NewHostError(primitives.ErrKeyTooLarge)
	}
	h.overlay.Delete(key)
	return nil
}

func (h *StoreHost) EmitEvent(event primitives.Event) *primitives.ExecError {
	if uint32(len(h.events)) >= h.maxEvents {
		return primitives.NewHostError(primitives.ErrEventLimit)
	}
	h.events = append(h.events, event)
	return nil
}

func (h *StoreHost) Log(level uint32, message string) *primitives.ExecError {
	h.logs = append(h.logs, primitives.LogLine{Level: level, Message: message})
	return nil
}

func (h *StoreHost) HashBlake3(data []byte) primitives.Hash {
	return primitives.HashBlake3(data)
}

func (h *StoreHost) VerifyEd25519(message []byte, signature *[64]byte, publicKey *[32]byte) bool {
	return primitives.VerifyEd25519(message, signature, publicKey)
}

func (h *StoreHost) GasRemaining() uint64 { return h.gasMeter.Remaining() }

func (h *StoreHost) GetContext() primitives.ExecutionContext { return h.context }

func (h *StoreHost) GasMeter() *primitives.GasMeter { return h.gasMeter }

func (h *StoreHost) Overlay() *primitives.StateOverlay { return h.overlay }

func (h *StoreHost) Events() []primitives.Event { return h.events }

func (h *StoreHost) Logs() []primitives.LogLine { return h.logs }
