// Package kapi is the thread-facing syscall surface: one thin,
// typed wrapper per syscall, each building the right syscall.Params
// arm and submitting it through the caller's kernel.Caller. A running
// thread only ever talks to the kernel through these functions — it
// never touches internal/kernel's Caller.Trap directly.
package kapi

import (
	"unsafe"

	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/syscall"
	"github.com/kozos-go/kozos/internal/kernel/thread"
)

// Run creates a new thread and returns its ID, or thread.Invalid if
// the thread pool or the stack region is exhausted.
func Run(c kernel.Caller, entry kernel.EntryFunc, name string, priority, stackSize int, argv []string) thread.ID {
	p := &syscall.Params{Run: &syscall.RunParams{
		Func:      kernel.EntryFunc(entry),
		Name:      name,
		Priority:  priority,
		StackSize: stackSize,
		Argv:      argv,
	}}
	c.Trap(syscall.Run, p)
	return thread.ID(p.Run.Ret)
}

// Exit terminates the calling thread. It never returns: the calling
// goroutine blocks forever on its next Suspend, the same way the
// original's stack is simply abandoned rather than freed.
func Exit(c kernel.Caller) {
	c.Trap(syscall.Exit, &syscall.Params{})
}

// Wait yields the processor without blocking: the caller is
// immediately re-enqueued at the tail of its own priority level.
func Wait(c kernel.Caller) {
	c.Trap(syscall.Wait, &syscall.Params{})
}

// Sleep blocks the calling thread until a matching Wakeup. There is no
// timeout: only a Wakeup issued by another thread returns it to its
// ready queue.
func Sleep(c kernel.Caller) {
	c.Trap(syscall.Sleep, &syscall.Params{})
}

// Wakeup makes target schedulable if it is currently blocked or
// asleep. Waking an already-ready thread, or an ID that
// names no live thread, is a harmless no-op.
func Wakeup(c kernel.Caller, target thread.ID) {
	c.Trap(syscall.Wakeup, &syscall.Params{Wakeup: &syscall.WakeupParams{Target: int32(target)}})
}

// GetID returns the calling thread's own opaque identity.
func GetID(c kernel.Caller) thread.ID {
	p := &syscall.Params{GetID: &syscall.GetIDParams{}}
	c.Trap(syscall.GetID, p)
	return thread.ID(p.GetID.Ret)
}

// ChangePriority sets the calling thread's priority and returns its
// previous value. Passing a negative priority reads the current value
// without changing it.
func ChangePriority(c kernel.Caller, priority int) (old int) {
	p := &syscall.Params{ChPri: &syscall.ChPriParams{Priority: priority}}
	c.Trap(syscall.ChPri, p)
	return p.ChPri.OldRet
}

// KMalloc allocates size bytes from the kernel's size-class heap. It
// returns nil if no class can satisfy the request or that class is
// exhausted.
func KMalloc(c kernel.Caller, size int) []byte {
	p := &syscall.Params{KMalloc: &syscall.KMallocParams{Size: size}}
	c.Trap(syscall.KMalloc, p)
	return p.KMalloc.Ret
}

// KMFree returns a block previously obtained from KMalloc to the
// kernel's heap.
func KMFree(c kernel.Caller, ptr []byte) {
	c.Trap(syscall.KMFree, &syscall.Params{KMFree: &syscall.KMFreeParams{Ptr: ptr}})
}

// Send enqueues a message of size bytes, pointed to by payload, on
// mbox, returning the size sent on success or -1 if mbox does not
// exist. Ownership of the bytes payload points to transfers to
// whichever thread eventually calls Recv.
func Send(c kernel.Caller, mbox int, size int, payload unsafe.Pointer) int {
	p := &syscall.Params{Send: &syscall.SendParams{Mbox: mbox, Size: size, Ptr: payload}}
	c.Trap(syscall.Send, p)
	return p.Send.Ret
}

// Recv blocks the calling thread until a message is available on mbox,
// then returns the sender's ID, the message size, and its payload
// pointer. At most one thread may be blocked receiving on a given
// mailbox at a time; a second concurrent Recv call on the same mbox is
// a fatal usage error that halts the kernel (system-down).
func Recv(c kernel.Caller, mbox int) (sender thread.ID, size int, payload unsafe.Pointer) {
	p := &syscall.Params{Recv: &syscall.RecvParams{
		Mbox:    mbox,
		SizeOut: &size,
		PtrOut:  &payload,
	}}
	c.Trap(syscall.Recv, p)
	return thread.ID(p.Recv.Sender), size, payload
}
