package hostapi

import "github.com/echenim/bedrock/primitives"

// StateStore abstracts over committed state storage: the state as of
// prev_state_root. The sandbox combines a StateStore with a
// primitives.StateOverlay to implement layered reads — the overlay is
// checked first, then the store.
//
// Implementations must be deterministic: the same key always returns the
// same value for a given state root.
type StateStore interface {
	// Get returns the value for key, or (nil, nil) if it does not exist.
	Get(key []byte) ([]byte, error)

	// Contains reports whether key exists in committed state.
	Contains(key []byte) (bool, error)
}

// OverlayApplier is implemented by StateStore backends that support
// committing a block's drained StateOverlay atomically. Both MemStore and
// PebbleStateStore implement it; a caller that executed a block and got a
// successful response type-asserts for this to persist the result.
type OverlayApplier interface {
	ApplyOverlay(entries []primitives.WriteEntry) error
}
