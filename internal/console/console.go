// Package console is the character-device driver spec.md treats as an
// external collaborator: a line-oriented output sink plus a registered
// device interrupt that feeds host keystrokes to whichever thread is
// blocked receiving on the console's input mailbox. Grounded on the
// teacher's terminal_io.go state machine, repurposed from a CPU's
// memory-mapped terminal register to a kernel-side driver sitting on
// top of internal/kernel/mailbox instead of a simulated address bus.
package console

import (
	"io"
	"sync"
	"unsafe"

	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/syscall"
)

// Device is one virtual console: an output sink plus a pending-input
// queue drained into mbox by the registered interrupt handler.
type Device struct {
	out  io.Writer
	mbox int
	vec  syscall.Vector

	mu      sync.Mutex
	pending []byte
}

// New creates a console writing to out and delivering input through
// mbox. Call Register to wire its interrupt handler into k before
// k.Start.
func New(out io.Writer, mbox int) *Device {
	return &Device{out: out, mbox: mbox}
}

// Register installs the device's interrupt handler on k and records
// the vector assigned to it for PushInput's later use. Must be called
// before k.Start, matching spec.md §4.5's "drivers register a handler
// for a vector type" at boot time.
func (d *Device) Register(k *kernel.Kernel) {
	d.vec = k.RegisterInterrupt(func(k *kernel.Kernel) {
		d.mu.Lock()
		pending := d.pending
		d.pending = nil
		d.mu.Unlock()

		for i := range pending {
			b := pending[i]
			k.PostToMailbox(d.mbox, 1, unsafe.Pointer(&b))
		}
	})
}

// PushInput queues b for delivery on this device's mailbox and raises
// the device's interrupt so the kernel goroutine picks it up. Intended
// to be called from a host input goroutine (e.g. a raw-terminal
// reader), never from a kernel thread. Register must have already been
// called.
func (d *Device) PushInput(k *kernel.Kernel, b byte) {
	d.mu.Lock()
	d.pending = append(d.pending, b)
	d.mu.Unlock()
	k.RaiseInterrupt(d.vec)
}

// Write implements io.Writer, so a thread can hand the console to
// anything expecting a writer (e.g. fmt.Fprintf) without going through
// a kernel trap: console output is not kernel state, so it needs no
// admission-gate serialization the way mailbox/heap/thread operations
// do.
func (d *Device) Write(p []byte) (int, error) {
	return d.out.Write(p)
}
