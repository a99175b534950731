package hostapi

import (
	"testing"

	"github.com/echenim/bedrock/primitives"
)

func openTestPebble(t *testing.T) *PebbleStateStore {
	t.Helper()
	store, err := OpenPebbleStateStore(t.TempDir())
	if err != nil {
		t.Fatalf("open pebble store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPebbleMissingKeyReturnsNil(t *testing.T) {
	store := openTestPebble(t)
	v, err := store.Get([]byte("missing"))
	if err != nil || v != nil {
		t.Fatalf("expected nil, nil; got %v, %v", v, err)
	}
}

func TestPebbleSetAndGet(t *testing.T) {
	store := openTestPebble(t)
	if err := store.Set([]byte("key1"), []byte("value1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := store.Get([]byte("key1"))
	if err != nil || string(v) != "value1" {
		t.Fatalf("unexpected result: v=%s err=%v", v, err)
	}
	ok, err := store.Contains([]byte("key1"))
	if err != nil || !ok {
		t.Fatalf("expected key1 to be present")
	}
}

func TestPebbleDelete(t *testing.T) {
	store := openTestPebble(t)
	store.Set([]byte("key1"), []byte("value1"))
	if err := store.Delete([]byte("key1")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v, err := store.Get([]byte("key1"))
	if err != nil || v != nil {
		t.Fatalf("expected key1 to be gone, got %v", v)
	}
}

func TestPebbleApplyOverlay(t *testing.T) {
	store := openTestPebble(t)
	store.Set([]byte("stale"), []byte("old"))

	overlay := primitives.NewStateOverlay()
	overlay.Set([]byte("key1"), []byte("value1"))
	overlay.Delete([]byte("stale"))

	if err := store.ApplyOverlay(overlay.Drain()); err != nil {
		t.Fatalf("apply overlay: %v", err)
	}

	v, _ := store.Get([]byte("key1"))
	if string(v) != "value1" {
		t.Fatalf("expected key1=value1, got %s", v)
	}
	v, _ = store.Get([]byte("stale"))
	if v != nil {
		t.Fatalf("expected stale to be deleted, got %s", v)
	}
}
