package sandbox

import "testing"

func TestReadBytesBasic(t *testing.T) {
	mem := []byte{10, 20, 30, 40, 50}
	result, err := readBytes(mem, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != string([]byte{20, 30, 40}) {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestReadBytesOutOfBounds(t *testing.T) {
	mem := []byte{10, 20, 30}
	if _, err := readBytes(mem, 1, 3); err == nil {
		t.Fatal("expected error for out-of-bounds read")
	}
	if _, err := readBytes(mem, -1, 1); err == nil {
		t.Fatal("expected error for negative pointer")
	}
	if _, err := readBytes(mem, 0, -1); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestWriteBytesBasic(t *testing.T) {
	mem := make([]byte, 8)
	if err := writeBytes(mem, 2, []byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem[2] != 0xAA || mem[3] != 0xBB {
		t.Fatalf("unexpected memory contents: %v", mem)
	}
}

func TestWriteBytesOutOfBounds(t *testing.T) {
	mem := make([]byte, 4)
	if err := writeBytes(mem, 2, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for out-of-bounds write")
	}
}

func TestReadWriteI32(t *testing.T) {
	mem := make([]byte, 16)
	if err := writeI32(mem, 4, 0x12345678); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := readI32(mem, 4)
	if err != nil || v != 0x12345678 {
		t.Fatalf("unexpected roundtrip: v=%x err=%v", v, err)
	}
}

func TestValidateRange(t *testing.T) {
	if !validateRange(100, 0, 100) {
		t.Fatal("expected full-range to be valid")
	}
	if validateRange(100, 0, 101) {
		t.Fatal("expected one-past-end to be invalid")
	}
	if validateRange(100, -1, 1) {
		t.Fatal("expected negative ptr to be invalid")
	}
	if validateRange(100, 50, -1) {
		t.Fatal("expected negative length to be invalid")
	}
}

func TestHostAllocatorBasic(t *testing.T) {
	alloc := newHostAllocator(65536, 65536*4)
	ptr, newBump, newCap, grow := alloc.computeAlloc(100)
	if ptr != 65536 || newBump != 104 || newCap != 65536*4 || grow != 0 {
		t.Fatalf("unexpected alloc: ptr=%d bump=%d cap=%d grow=%d", ptr, newBump, newCap, grow)
	}
}

func TestHostAllocatorNeedsGrow(t *testing.T) {
	alloc := newHostAllocator(65536, 64)
	ptr, newBump, newCap, grow := alloc.computeAlloc(100)
	if ptr != 65536 {
		t.Fatalf("unexpected ptr: %d", ptr)
	}
	if grow == 0 {
		t.Fatal("expected growth to be required")
	}
	if newCap < newBump {
		t.Fatalf("new capacity %d must cover new bump %d", newCap, newBump)
	}
}

func TestHostAllocatorSequential(t *testing.T) {
	alloc := newHostAllocator(1000, 1000)
	ptr1, bump1, cap1, _ := alloc.computeAlloc(10)
	alloc.commit(bump1, cap1)
	ptr2, bump2, cap2, _ := alloc.computeAlloc(20)
	alloc.commit(bump2, cap2)

	if ptr1 != 1000 {
		t.Fatalf("unexpected ptr1: %d", ptr1)
	}
	if ptr2 != 1000+16 {
		t.Fatalf("expected ptr2 to be base+16 (10 aligned to 8), got %d", ptr2)
	}
	if ptr2 <= ptr1 {
		t.Fatal("expected ptr2 > ptr1")
	}
}
