package primitives

import "sort"

// OverlayResultKind discriminates the outcome of an overlay Get.
type OverlayResultKind int

const (
	// OverlayNotInOverlay means the key has no entry in the overlay; the
	// caller must fall through to committed state.
	OverlayNotInOverlay OverlayResultKind = iota
	// OverlayFound means the key was set in the overlay to Value.
	OverlayFound
	// OverlayDeleted means the key was tombstoned in the overlay.
	OverlayDeleted
)

// OverlayResult is the result of StateOverlay.Get.
type OverlayResult struct {
	Kind  OverlayResultKind
	Value []byte
}

// StateOverlay is the per-block transactional write buffer: a mapping from
// key to either a value (set) or a tombstone (delete). It never reads
// committed state — layering overlay-then-store is the host's job.
type StateOverlay struct {
	writes         map[string][]byte // set values only; deleted keys live in tombstones
	tombstones     map[string]struct{}
	totalWriteBytes uint64
}

// NewStateOverlay creates an empty overlay.
func NewStateOverlay() *StateOverlay {
	return &StateOverlay{
		writes:     make(map[string][]byte),
		tombstones: make(map[string]struct{}),
	}
}

// removeExistingContribution subtracts key's current contribution to the
// byte budget, if any, before a new write/delete replaces it.
func (o *StateOverlay) removeExistingContribution(key string) {
	if v, ok := o.writes[key]; ok {
		o.totalWriteBytes -= uint64(len(key) + len(v))
		delete(o.writes, key)
		delete(o.tombstones, key)
		return
	}
	if _, ok := o.tombstones[key]; ok {
		o.totalWriteBytes -= uint64(len(key))
		delete(o.tombstones, key)
	}
}

// Set records key=value, replacing any prior entry for key.
func (o *StateOverlay) Set(key, value []byte) {
	k := string(key)
	o.removeExistingContribution(k)
	o.writes[k] = append([]byte(nil), value...)
	o.totalWriteBytes += uint64(len(key) + len(value))
}

// Delete records a tombstone for key, replacing any prior entry.
func (o *StateOverlay) Delete(key []byte) {
	k := string(key)
	o.removeExistingContribution(k)
	o.tombstones[k] = struct{}{}
	o.totalWriteBytes += uint64(len(key))
}

// Get returns the overlay's view of key: Found, Deleted, or NotInOverlay.
func (o *StateOverlay) Get(key []byte) OverlayResult {
	k := string(key)
	if v, ok := o.writes[k]; ok {
		return OverlayResult{Kind: OverlayFound, Value: v}
	}
	if _, ok := o.tombstones[k]; ok {
		return OverlayResult{Kind: OverlayDeleted}
	}
	return OverlayResult{Kind: OverlayNotInOverlay}
}

// ContainsKey reports whether key has any entry (set or tombstone) in the
// overlay.
func (o *StateOverlay) ContainsKey(key []byte) bool {
	k := string(key)
	_, set := o.writes[k]
	_, del := o.tombstones[k]
	return set || del
}

// Len returns the number of entries (sets plus tombstones) in the overlay.
func (o *StateOverlay) Len() int { return len(o.writes) + len(o.tombstones) }

// IsEmpty reports whether the overlay has no entries.
func (o *StateOverlay) IsEmpty() bool { return o.Len() == 0 }

// TotalWriteBytes returns the cumulative key+value byte count the overlay is
// charged against max_write_bytes.
func (o *StateOverlay) TotalWriteBytes() uint64 { return o.totalWriteBytes }

// Clear empties the overlay, resetting the byte budget to zero.
func (o *StateOverlay) Clear() {
	o.writes = make(map[string][]byte)
	o.tombstones = make(map[string]struct{})
	o.totalWriteBytes = 0
}

// WriteEntry is one entry produced by Drain, in sorted key order.
type WriteEntry struct {
	Key       []byte
	Value     []byte // nil when IsDeleted is true
	IsDeleted bool
}

// Drain returns every entry in the overlay in ascending key order. It does
// not mutate the overlay.
func (o *StateOverlay) Drain() []WriteEntry {
	keys := make([]string, 0, o.Len())
	for k := range o.writes {
		keys = append(keys, k)
	}
	for k := range o.tombstones {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]WriteEntry, 0, len(keys))
	for _, k := range keys {
		if v, ok := o.writes[k]; ok {
			entries = append(entries, WriteEntry{Key: []byte(k), Value: v})
		} else {
			entries = append(entries, WriteEntry{Key: []byte(k), IsDeleted: true})
		}
	}
	return entries
}
