package sandbox

import (
	"encoding/binary"

	"github.com/echenim/bedrock/hostapi"
)

// readBytes reads len bytes from guest memory at ptr, bounds-checked
// against mem's current size.
func readBytes(mem []byte, ptr, length int32) ([]byte, *hostapi.HostError) {
	if ptr < 0 || length < 0 {
		return nil, hostapi.BadPointer()
	}
	start := int(ptr)
	end := start + int(length)
	if end < start || end > len(mem) {
		return nil, hostapi.BadPointer()
	}
	out := make([]byte, length)
	copy(out, mem[start:end])
	return out, nil
}

// writeBytes writes data into guest memory at ptr, bounds-checked against
// mem's current size.
func writeBytes(mem []byte, ptr int32, data []byte) *hostapi.HostError {
	if ptr < 0 {
		return hostapi.BadPointer()
	}
	start := int(ptr)
	end := start + len(data)
	if end < start || end > len(mem) {
		return hostapi.BadPointer()
	}
	copy(mem[start:end], data)
	return nil
}

// readI32 reads a little-endian i32 from guest memory at ptr.
func readI32(mem []byte, ptr int32) (int32, *hostapi.HostError) {
	b, err := readBytes(mem, ptr, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// writeI32 writes value as a little-endian i32 to guest memory at ptr.
func writeI32(mem []byte, ptr, value int32) *hostapi.HostError {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(value))
	return writeBytes(mem, ptr, buf[:])
}

// validateRange reports whether [ptr, ptr+length) lies within a region of
// memSize bytes, for call sites that only need the error code.
func validateRange(memSize int, ptr, length int32) bool {
	if ptr < 0 || length < 0 {
		return false
	}
	end := int(ptr) + int(length)
	return end >= int(ptr) && end <= memSize
}

// align8 rounds size up to the next multiple of 8.
func align8(size int) int {
	return (size + 7) &^ 7
}

const wasmPageSize = 65536

// hostAllocPages is the number of guest-memory pages reserved for the
// host's bump allocator immediately after module instantiation.
const hostAllocPages = 4

// hostAllocator is a bump-pointer allocator into a region of guest linear
// memory, used by host-call implementations that must hand data back to
// the guest (state_get results, the serialized execution context). There
// is no deallocation: the entire WASM instance is discarded after one
// block execution.
type hostAllocator struct {
	base     int
	bump     int
	capacity int
}

func newHostAllocator(base, capacity int) *hostAllocator {
	return &hostAllocator{base: base, capacity: capacity}
}

// computeAlloc returns (ptr, newBump, newCapacity, growPages) for an
// allocation of size bytes. If the current region is full, growPages > 0
// indicates memory must grow before the caller writes to ptr.
func (a *hostAllocator) computeAlloc(size int) (ptr, newBump, newCapacity int, growPages uint64) {
	aligned := align8(max(size, 1))
	if a.bump+aligned <= a.capacity {
		return a.base + a.bump, a.bump + aligned, a.capacity, 0
	}
	deficit := a.bump + aligned - a.capacity
	extraPages := uint64((deficit + wasmPageSize - 1) / wasmPageSize)
	newCap := a.capacity + int(extraPages)*wasmPageSize
	return a.base + a.bump, a.bump + aligned, newCap, extraPages
}

// commit records the allocator state after a successful allocation.
func (a *hostAllocator) commit(newBump, newCapacity int) {
	a.bump = newBump
	a.capacity = newCapacity
}
