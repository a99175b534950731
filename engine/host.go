// Package engine implements the deterministic block-execution state
// transition function: decoding and validating a block, processing its
// transactions against a HostInterface, and producing receipts, events,
// and a new state root.
package engine

import (
	"github.com/echenim/bedrock/primitives"
)

// HostInterface abstracts over the execution environment backing state
// access, gas metering, and event collection. The engine calls these
// methods during block execution; it never touches storage directly,
// which keeps ExecuteBlock deterministic given identical (request, host)
// inputs.
//
// Implementations:
//   - MockHost: in-memory host used by engine tests
//   - hostapi.StoreHost: StateStore-backed host used by cmd/bedrockd's
//     native execution path
type HostInterface interface {
	// StateGet reads a value from state. It returns (nil, nil) when the
	// key does not exist. Reads reflect committed state overlaid with any
	// writes already buffered earlier in the same block execution.
	StateGet(key []byte) ([]byte, *primitives.ExecError)

	// StateSet buffers a key-value write in the overlay. It enforces
	// MaxKeyLen, MaxValueLen, and the host's configured write-byte budget.
	StateSet(key, value []byte) *primitives.ExecError

	// StateDelete records a tombstone for key in the overlay.
	StateDelete(key []byte) *primitives.ExecError

	// EmitEvent appends an event, bounded by the host's max-events limit.
	EmitEvent(event primitives.Event) *primitives.ExecError

	// Log appends a non-consensus-critical debug log line. The engine
	// must never branch on the outcome of a log call.
	Log(level uint32, message string) *primitives.ExecError

	// HashBlake3 computes a BLAKE3 digest.
	HashBlake3(data []byte) primitives.Hash

	// VerifyEd25519 deterministically verifies a signature.
	VerifyEd25519(message []byte, signature *[64]byte, publicKey *[32]byte) bool

	// GasRemaining reports gas left in the current block's budget.
	GasRemaining() uint64

	// GetContext returns the execution context for the current block.
	GetContext() primitives.ExecutionContext

	// GasMeter exposes the gas meter for engine-internal bookkeeping.
	GasMeter() *primitives.GasMeter

	// Overlay exposes the buffered state writes for state-root computation.
	Overlay() *primitives.StateOverlay

	// Events returns all events collected so far.
	Events() []primitives.Event

	// Logs returns all log lines collected so far.
	Logs() []primitives.LogLine
}

// MockHost is an in-memory HostInterface used by engine tests and by
// callers exercising the execution core without a WASM sandbox.
type MockHost struct {
	committed     map[string][]byte
	overlay       *primitives.StateOverlay
	gasMeter      *primitives.GasMeter
	context       primitives.ExecutionContext
	events        []primitives.Event
	logs          []primitives.LogLine
	maxEvents     uint32
	maxWriteBytes uint32
}

// NewMockHost creates a MockHost from committed state and an execution
// context. committed may be nil, which is treated as empty.
func NewMockHost(committed map[string][]byte, context primitives.ExecutionContext) *MockHost {
	if committed == nil {
		committed = make(map[string][]byte)
	}
	return &MockHost{
		committed:     committed,
		overlay:       primitives.NewStateOverlay(),
		gasMeter:      primitives.NewGasMeter(context.GasLimit),
		context:       context,
		maxEvents:     context.MaxEvents,
		maxWriteBytes: context.MaxWriteBytes,
	}
}

// MockHostWithDefaults returns a MockHost with empty committed state and
// ExecutionLimits' production defaults applied to its context.
func MockHostWithDefaults() *MockHost {
	limits := primitives.DefaultExecutionLimits()
	ctx := primitives.ExecutionContext{
		ChainID:       []byte("test-chain"),
		BlockHeight:   1,
		BlockTime:     1_700_000_000,
		BlockHash:     primitives.ZeroHash,
		GasLimit:      limits.GasLimit,
		MaxEvents:     limits.MaxEvents,
		MaxWriteBytes: limits.MaxWriteBytes,
		APIVersion:    primitives.APIVersion,
	}
	return NewMockHost(nil, ctx)
}

// SetCommitted inserts initial state for testing.
func (h *MockHost) SetCommitted(key, value []byte) {
	h.committed[string(key)] = append([]byte(nil), value...)
}

// Commit drains the overlay into committed state, simulating a commit.
func (h *MockHost) Commit() {
	for _, entry := range h.overlay.Drain() {
		if entry.IsDeleted {
			delete(h.committed, string(entry.Key))
		} else {
			h.committed[string(entry.Key)] = entry.Value
		}
	}
	h.overlay = primitives.NewStateOverlay()
}

// CommittedState exposes committed state for test assertions.
func (h *MockHost) CommittedState() map[string][]byte { return h.committed }

func (h *MockHost) StateGet(key []byte) ([]byte, *primitives.ExecError) {
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
		return h.committed[string(key)], nil
	}
}

func (h *MockHost) StateSet(key, value []byte) *primitives.ExecError {
	if len(key) > primitives.MaxKeyLen {
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

func (h *MockHost) StateDelete(key []byte) *primitives.ExecError {
	if len(key) > primitives.MaxKeyLen {
		return primitives.NewHostError(primitives.ErrKeyTooLarge)
	}
	h.overlay.Delete(key)
	return nil
}

func (h *MockHost) EmitEvent(event primitives.Event) *primitives.ExecError {
	if uint32(len(h.events)) >= h.maxEvents {
		return primitives.NewHostError(primitives.ErrEventLimit)
	}
	h.events = append(h.events, event)
	return nil
}

func (h *MockHost) Log(level uint32, message string) *primitives.ExecError {
	h.logs = append(h.logs, primitives.LogLine{Level: level, Message: message})
	return nil
}

func (h *MockHost) HashBlake3(data []byte) primitives.Hash {
	return primitives.HashBlake3(data)
}

func (h *MockHost) VerifyEd25519(message []byte, signature *[64]byte, publicKey *[32]byte) bool {
	return primitives.VerifyEd25519(message, signature, publicKey)
}

func (h *MockHost) GasRemaining() uint64 { return h.gasMeter.Remaining() }

func (h *MockHost) GetContext() primitives.ExecutionContext { return h.context }

func (h *MockHost) GasMeter() *primitives.GasMeter { return h.gasMeter }

func (h *MockHost) Overlay() *primitives.StateOverlay { return h.overlay }

func (h *MockHost) Events() []primitives.Event { return h.events }

func (h *MockHost) Logs() []primitives.LogLine { return h.logs }
