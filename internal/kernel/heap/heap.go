// Package heap implements the kernel's size-class allocator: a fixed
// number of free lists, each holding uniformly sized blocks pre-carved
// from one contiguous arena. Allocation never splits or coalesces
// across classes; exhaustion of a class is reported to the caller, not
// retried against a larger one.
package heap

import (
	"fmt"
	"unsafe"
)

// headerSize is the size of the header written ahead of every block's
// user-data region: [4 bytes magic][4 bytes class index].
const headerSize = 8

const magic uint32 = 0x4B5A0540 // "KZ" + class-heap marker

// class holds one size class's block size and free-list stack of
// arena byte offsets. A stack (not a queue) is fine here: spec.md
// makes no FIFO promise about which block Alloc returns within a
// class.
type class struct {
	blockSize int // user-data bytes, excludes headerSize
	free      []int
}

// Heap is a set of size classes carved from one arena at construction
// time. It is not safe for concurrent use; the kernel singleton is the
// only caller, serialized by its own trap-admission gate.
type Heap struct {
	arena      []byte
	arenaStart unsafe.Pointer
	classes    []class
}

// New partitions an arena into len(sizes) size classes, each holding
// count blocks, and threads each class's free list. sizes must be
// strictly increasing. New panics if sizes is empty or count <= 0 —
// both are boot-time configuration errors, not runtime conditions
// callers should recover from.
func New(sizes []int, count int) *Heap {
	if len(sizes) == 0 {
		panic("heap: no size classes configured")
	}
	if count <= 0 {
		panic("heap: class count must be positive")
	}

	total := 0
	for _, sz := range sizes {
		total += (headerSize + sz) * count
	}
	arena := make([]byte, total)

	h := &Heap{
		arena:      arena,
		arenaStart: unsafe.Pointer(&arena[0]),
		classes:    make([]class, len(sizes)),
	}

	off := 0
	for i, sz := range sizes {
		h.classes[i] = class{blockSize: sz, free: make([]int, 0, count)}
		stride := headerSize + sz
		for j := 0; j < count; j++ {
			h.classes[i].free = append(h.classes[i].free, off)
			off += stride
		}
	}
	return h
}

// Alloc returns a size-byte slice over a block from the smallest class whose
// block size is at least size, or nil if that class's free list is
// empty. It never falls back to a larger class.
func (h *Heap) Alloc(size int) []byte {
	for i := range h.classes {
		c := &h.classes[i]
		if c.blockSize < size {
			continue
		}
		n := len(c.free)
		if n == 0 {
			return nil
		}
		off := c.free[n-1]
		c.free = c.free[:n-1]

		ptr := unsafe.Add(h.arenaStart, off)
		*(*uint32)(ptr) = magic
		*(*uint32)(unsafe.Add(ptr, 4)) = uint32(i)
		return unsafe.Slice((*byte)(unsafe.Add(ptr, headerSize)), c.blockSize)[:size]
	}
	return nil
}

// Free returns p's block to its owning size class, identified from
// the header written ahead of it at Alloc time — no size argument is
// needed. p must have been returned by Alloc on this Heap and not
// already freed.
func (h *Heap) Free(p []byte) {
	if len(p) == 0 {
		return
	}
	dataPtr := unsafe.Pointer(&p[:1][0])
	off := int(uintptr(dataPtr) - uintptr(h.arenaStart) - headerSize)
	if off < 0 || off >= len(h.arena) {
		panic("heap: pointer does not belong to this heap")
	}

	headerPtr := unsafe.Add(h.arenaStart, off)
	if *(*uint32)(headerPtr) != magic {
		panic("heap: double free or corrupt block")
	}
	class := int(*(*uint32)(unsafe.Add(headerPtr, 4)))
	*(*uint32)(headerPtr) = 0 // invalidate so a repeat Free is caught

	c := &h.classes[class]
	c.free = append(c.free, off)
}

// ClassOf reports the size-class index a previously allocated,
// not-yet-freed block belongs to. Used by tests to assert property P7
// (round-trip by class) without threading the index through call
// sites.
func (h *Heap) ClassOf(p []byte) int {
	dataPtr := unsafe.Pointer(&p[:1][0])
	off := int(uintptr(dataPtr) - uintptr(h.arenaStart) - headerSize)
	headerPtr := unsafe.Add(h.arenaStart, off)
	return int(*(*uint32)(unsafe.Add(headerPtr, 4)))
}

// String renders free-list occupancy, one line per class, for
// diagnostics.
func (h *Heap) String() string {
	s := ""
	for i, c := range h.classes {
		s += fmt.Sprintf("class[%d] size=%d free=%d\n", i, c.blockSize, len(c.free))
	}
	return s
}
