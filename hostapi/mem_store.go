package hostapi

import (
	"sort"

	"github.com/echenim/bedrock/primitives"
)

// MemStore is an in-memory StateStore, useful for unit and integration
// tests where a real storage backend is unnecessary.
type MemStore struct {
	data map[string][]byte
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// MemStoreWithData creates a store pre-populated from data. The caller
// retains ownership of the slices; MemStore copies nothing.
func MemStoreWithData(data map[string][]byte) *MemStore {
	if data == nil {
		data = make(map[string][]byte)
	}
	return &MemStore{data: data}
}

// Insert adds or overwrites a key-value pair.
func (m *MemStore) Insert(key, value []byte) {
	m.data[string(key)] = value
}

// Remove deletes key from the store, if present.
func (m *MemStore) Remove(key []byte) {
	delete(m.data, string(key))
}

// Len returns the number of entries in the store.
func (m *MemStore) Len() int { return len(m.data) }

// IsEmpty reports whether the store has no entries.
func (m *MemStore) IsEmpty() bool { return len(m.data) == 0 }

// Keys returns the store's keys in sorted order, for deterministic
// iteration in tests and diagnostics.
func (m *MemStore) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MemStore) Get(key []byte) ([]byte, error) {
	return m.data[string(key)], nil
}

func (m *MemStore) Contains(key []byte) (bool, error) {
	_, ok := m.data[string(key)]
	return ok, nil
}

// ApplyOverlay commits every entry from a drained StateOverlay: writes for
// written keys, removals for tombstones. Mirrors PebbleStateStore.ApplyOverlay
// so callers can commit a block's overlay without branching on which
// StateStore implementation backs the run.
func (m *MemStore) ApplyOverlay(entries []primitives.WriteEntry) error {
	for _, e := range entries {
		if e.IsDeleted {
			m.Remove(e.Key)
			continue
		}
		m.Insert(e.Key, e.Value)
	}
	return nil
}

var _ StateStore = (*MemStore)(nil)
