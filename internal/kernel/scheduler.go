package kernel

import (
	"errors"

	"github.com/kozos-go/kozos/internal/kernel/thread"
)

// ErrSystemDown is the error Start returns whenever the kernel halts,
// the Go analogue of kz_sysdown's fatal halt: when scheduleAndDispatch
// finds every ready queue empty, and also on a second concurrent
// receiver on a mailbox, a failed message-descriptor allocation, or an
// unknown syscall type. The logged diagnostic names the reason.
var ErrSystemDown = errors.New("kernel: system down")

// scheduleAndDispatch is spec.md §3's schedule()+dispatch() pair
// collapsed into one step, since this port has no separate "currently
// loaded PSW/PC" to restore independently of resuming a goroutine:
// picking the next thread and resuming its goroutine are the same
// action here. It removes the chosen thread from its ready queue
// (current threads are never themselves on a queue) and resumes it.
func (k *Kernel) scheduleAndDispatch() {
	next, _ := k.pool.Head()
	if next == nil {
		k.triggerHalt("no runnable thread", ErrSystemDown)
		return
	}
	k.pool.Dequeue(next)
	k.current = next.ID()
	k.handles[next.ID()-1].Resume()
}

// requeueCurrent re-enqueues the thread named by id at the tail of its
// priority's ready queue, the common case after a syscall that does
// not block (spec.md §4.5's default re-enqueue column). It is a no-op
// if the TCB no longer exists (already freed by Exit in the same
// call).
func (k *Kernel) requeueCurrent(id thread.ID) {
	t := k.pool.Get(id)
	if t == nil || !t.InUse() {
		return
	}
	k.pool.Enqueue(t)
}
