package hostapi

import (
	"testing"

	"github.com/echenim/bedrock/primitives"
)

func testContext() primitives.ExecutionContext {
	limits := primitives.DefaultExecutionLimits()
	return primitives.ExecutionContext{
		ChainID:       []byte("test-chain"),
		BlockHeight:   1,
		BlockTime:     1_700_000_000,
		GasLimit:      limits.GasLimit,
		MaxEvents:     limits.MaxEvents,
		MaxWriteBytes: limits.MaxWriteBytes,
		APIVersion:    primitives.APIVersion,
	}
}

func TestStoreHostReadsCommittedState(t *testing.T) {
	store := NewMemStore()
	store.Insert([]byte("k"), []byte("v"))

	host := NewStoreHost(store, testContext())
	v, err := host.StateGet([]byte("k"))
	if err != nil || string(v) != "v" {
		t.Fatalf("unexpected result: v=%s err=%v", v, err)
	}
}

func TestStoreHostOverlayShadowsCommitted(t *testing.T) {
	store := NewMemStore()
	store.Insert([]byte("k"), []byte("old"))

	host := NewStoreHost(store, testContext())
	if err := host.StateSet([]byte("k"), []byte("new")); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, _ := host.StateGet([]byte("k"))
	if string(v) != "new" {
		t.Fatalf("expected overlay value, got %s", v)
	}

	// the underlying store is untouched until a caller applies the overlay.
	stored, _ := store.Get([]byte("k"))
	if string(stored) != "old" {
		t.Fatalf("expected committed store unchanged, got %s", stored)
	}
}

func TestStoreHostDeleteTombstonesOverlay(t *testing.T) {
	store := NewMemStore()
	store.Insert([]byte("k"), []byte("v"))

	host := NewStoreHost(store, testContext())
	if err := host.StateDelete([]byte("k")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v, err := host.StateGet([]byte("k"))
	if err != nil || v != nil {
		t.Fatalf("expected nil after delete, got %v, %v", v, err)
	}
}

func TestStoreHostRejectsEmptyKey(t *testing.T) {
	host := NewStoreHost(NewMemStore(), testContext())

	if err := host.StateSet(nil, []byte("v")); err == nil || err.Code != primitives.ErrKeyTooLarge {
		t.Fatalf("expected ErrKeyTooLarge for empty key, got %v", err)
	}
	if err := host.StateDelete(nil); err == nil || err.Code != primitives.ErrKeyTooLarge {
		t.Fatalf("expected ErrKeyTooLarge for empty key, got %v", err)
	}
}

func TestStoreHostEventLimit(t *testing.T) {
	ctx := testContext()
	ctx.MaxEvents = 1
	host := NewStoreHost(NewMemStore(), ctx)

	if err := host.EmitEvent(primitives.Event{EventType: "a"}); err != nil {
		t.Fatalf("first event: %v", err)
	}
	if err := host.EmitEvent(primitives.Event{EventType: "b"}); err == nil {
		t.Fatal("expected event limit error")
	}
}
