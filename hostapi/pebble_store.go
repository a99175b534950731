package hostapi

import (
	"github.com/cockroachdb/pebble"

	"github.com/echenim/bedrock/primitives"
)

// PebbleStateStore backs committed state with an on-disk Pebble database,
// for callers (cmd/bedrockd with --datadir set) that want execution to
// read from a persisted store rather than an in-memory one. Pebble never
// sees overlay writes — ExecuteBlock's overlay is host-side only and is
// the caller's responsibility to persist after a successful block.
type PebbleStateStore struct {
	db *pebble.DB
}

// OpenPebbleStateStore opens (creating if necessary) a Pebble database at
// dir as a committed-state backend.
func OpenPebbleStateStore(dir string) (*PebbleStateStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStateStore{db: db}, nil
}

// Get returns the value for key, or (nil, nil) if key is absent.
func (s *PebbleStateStore) Get(key []byte) ([]byte, error) {
	value, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(value))
	copy(out, value)
	if cerr := closer.Close(); cerr != nil {
		return nil, cerr
	}
	return out, nil
}

// Contains reports whether key exists in committed state.
func (s *PebbleStateStore) Contains(key []byte) (bool, error) {
	value, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return value != nil, nil
}

// Set writes a committed key/value pair directly, bypassing the execution
// overlay. Used by callers to apply a block's overlay after execution
// succeeds, never by guest-facing code.
func (s *PebbleStateStore) Set(key, value []byte) error {
	return s.db.Set(key, value, pebble.Sync)
}

// Delete removes a committed key directly, bypassing the execution
// overlay. Used by callers applying a block's overlay tombstones.
func (s *PebbleStateStore) Delete(key []byte) error {
	return s.db.Delete(key, pebble.Sync)
}

// ApplyOverlay commits every entry from a drained StateOverlay to the
// store: sets for written keys, deletes for tombstones. Callers invoke
// this after ExecuteBlock returns a non-error status, applying the same
// overlay the sandbox read against during that block's execution.
func (s *PebbleStateStore) ApplyOverlay(entries []primitives.WriteEntry) error {
	batch := s.db.NewBatch()
	for _, e := range entries {
		if e.IsDeleted {
			if err := batch.Delete(e.Key, nil); err != nil {
				return err
			}
			continue
		}
		if err := batch.Set(e.Key, e.Value, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

// Close releases the underlying database handle.
func (s *PebbleStateStore) Close() error {
	return s.db.Close()
}

var _ StateStore = (*PebbleStateStore)(nil)
