package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// StackRegion is the Go analogue of spec.md §4.3's linker-provided
// memory region that thread_run carves fixed-size stacks out of with a
// bump pointer and never reclaims. It is backed by one real anonymous
// mapping via golang.org/x/sys/unix.Mmap, rather than a plain Go
// slice, so the region genuinely lives outside the Go heap and at a
// stable address for the lifetime of the kernel — the same property
// the original linker section has.
type StackRegion struct {
	mem  []byte
	next int
}

// NewStackRegion mmaps size bytes of anonymous, private memory to back
// thread stacks. It returns an error instead of panicking so callers
// (internal/kernel.New) can report mapping failure through the normal
// error-return path rather than crashing the process.
func NewStackRegion(size int) (*StackRegion, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("platform: mmap stack region: %w", err)
	}
	return &StackRegion{mem: mem}, nil
}

// Carve bump-allocates a size-byte stack slice for a new thread. It
// returns the offset into the region (for TCB.StackBase/StackSize
// bookkeeping) and reports ok=false if the region is exhausted — the
// Go analogue of spec.md's "thread creation fails once the stack
// region is exhausted," which this port surfaces as an ordinary pool-
// exhaustion condition rather than a separate error class.
func (r *StackRegion) Carve(size int) (base int, ok bool) {
	if r.next+size > len(r.mem) {
		return 0, false
	}
	base = r.next
	r.next += size
	return base, true
}

// Close unmaps the region. Only ever called at kernel shutdown in
// tests; a running kernel keeps its region for its entire process
// lifetime, matching the original's "this memory is never freed."
func (r *StackRegion) Close() error {
	return unix.Munmap(r.mem)
}
