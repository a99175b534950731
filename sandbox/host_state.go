package sandbox

import (
	"github.com/echenim/bedrock/hostapi"
	"github.com/echenim/bedrock/primitives"
)

// hostState is the per-execution mutable state held inside the wasmtime
// Store. It is created fresh for each ExecuteBlock call and discarded with
// the WASM instance at the end of execution.
type hostState struct {
	gasMeter       *primitives.GasMeter
	overlay        *primitives.StateOverlay
	stateStore     hostapi.StateStore
	context        primitives.ExecutionContext
	encodedContext []byte
	config         hostapi.ExecutionConfig
	events         []primitives.Event
	logs           []primitives.LogLine
	eventCount     uint32
	hostAlloc      *hostAllocator
}

func newHostState(store hostapi.StateStore, context primitives.ExecutionContext, config hostapi.ExecutionConfig) *hostState {
	return &hostState{
		gasMeter:       primitives.NewGasMeter(config.GasLimit),
		overlay:        primitives.NewStateOverlay(),
		stateStore:     store,
		context:        context,
		encodedContext: primitives.EncodeExecutionContext(&context),
		config:         config,
		hostAlloc:      newHostAllocator(0, 0),
	}
}

// stateGet reads a value: the overlay first, then committed state.
func (h *hostState) stateGet(key []byte) ([]byte, *hostapi.HostError) {
	res := h.overlay.Get(key)
	switch res.Kind {
	case primitives.OverlayFound:
		return res.Value, nil
	case primitives.OverlayDeleted:
		return nil, nil
	default:
		val, err := h.stateStore.Get(key)
		if err != nil {
			return nil, hostapi.Internal(err.Error())
		}
		return val, nil
	}
}

// stateSet writes to the overlay. It mirrors the reference sandbox's
// write-budget enforcement exactly: the overlay write happens first, and
// only then is the cumulative write-byte total checked — so a write that
// trips the limit is still buffered. The over-budget entry stays in the
// overlay and is included in the entries ExecuteBlock returns from Drain,
// so callers must not rely on StateSet leaving the overlay untouched on a
// WriteLimit error.
func (h *hostState) stateSet(key, value []byte) *hostapi.HostError {
	if len(key) > h.config.MaxKeyLen || len(key) == 0 {
		return hostapi.KeyTooLarge()
	}
	if len(value) > h.config.MaxValueLen {
		return hostapi.ValueTooLarge()
	}
	h.overlay.Set(key, value)
	if h.overlay.TotalWriteBytes() > uint64(h.config.MaxWriteBytes) {
		return hostapi.WriteLimit()
	}
	return nil
}

// stateDelete tombstones a key in the overlay.
func (h *hostState) stateDelete(key []byte) *hostapi.HostError {
	if len(key) > h.config.MaxKeyLen || len(key) == 0 {
		return hostapi.KeyTooLarge()
	}
	h.overlay.Delete(key)
	return nil
}

// addEvent records an emitted event, enforcing MaxEvents.
func (h *hostState) addEvent(event primitives.Event) *hostapi.HostError {
	h.eventCount++
	if h.eventCount > h.config.MaxEvents {
		return hostapi.EventLimit()
	}
	h.events = append(h.events, event)
	return nil
}

// addLog records a log line. Oversized lines and lines past the log-count
// cap are silently dropped — logging is never consensus-critical and the
// guest must not be able to observe the difference by branching.
func (h *hostState) addLog(level uint32, message string) {
	if len(message) > h.config.MaxLogLineLen {
		return
	}
	if len(h.logs) >= int(h.config.MaxLogLines) {
		return
	}
	h.logs = append(h.logs, primitives.LogLine{Level: level, Message: message})
}
