package kernel

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/kozos-go/kozos/internal/kernel/syscall"
	"github.com/kozos-go/kozos/internal/kernel/thread"
)

// RegisterInterrupt hands out the next device vector and records h as
// its handler, the Go analogue of spec.md's softvec_setintr. Handlers
// must be registered before Start; RegisterInterrupt is not safe to
// call once the kernel goroutine is running.
func (k *Kernel) RegisterInterrupt(h Handler) syscall.Vector {
	v := syscall.VectorDevice0 + syscall.Vector(len(k.handlers))
	k.handlers = append(k.handlers, h)
	return v
}

// RaiseInterrupt delivers a device interrupt for vector. It may be
// called from any goroutine — typically a simulated timer or I/O
// device running independently of every thread — and blocks until the
// kernel has finished running the registered handler. Raising an
// unregistered vector is a programming error and panics.
func (k *Kernel) RaiseInterrupt(v syscall.Vector) {
	idx := int(v - syscall.VectorDevice0)
	if idx < 0 || idx >= len(k.handlers) {
		panic(fmt.Sprintf("kernel: RaiseInterrupt: vector %d has no registered handler", v))
	}
	if err := k.gate.Acquire(context.Background(), 1); err != nil {
		panic(fmt.Sprintf("kernel: admission gate acquire failed: %v", err))
	}
	done := make(chan struct{})
	k.trapCh <- trapEvent{from: thread.None, vector: v, fault: done}
	<-done
}

// run is the kernel's single serialized goroutine: admit one trap,
// process it, redispatch if warranted, release the gate, repeat.
// Spec.md's "interrupts disabled during kernel processing" is exactly
// the window between a caller's successful gate.Acquire and this
// loop's matching Release.
func (k *Kernel) run() {
	for ev := range k.trapCh {
		dispatch := k.processEvent(ev)
		if k.haltErr != nil {
			k.gate.Release(1)
			close(k.halted)
			return
		}
		if dispatch {
			k.scheduleAndDispatch()
			if k.haltErr != nil {
				k.gate.Release(1)
				close(k.halted)
				return
			}
		}
		k.gate.Release(1)
	}
}

// processEvent interprets one admitted trap. It returns whether a
// reschedule is warranted: true for every syscall and software-error
// trap, false for a device interrupt, whose handler only updates
// bookkeeping and never switches away from whichever thread is
// already running freely. The running thread is a live goroutine that
// cannot be preempted from a concurrent interrupt; the switch away from
// it happens at its own next syscall or fault trap.
func (k *Kernel) processEvent(ev trapEvent) (dispatch bool) {
	switch ev.vector {
	case vectorBoot:
		return true
	case syscall.VectorSyscall:
		k.callFunctions(ev.from, ev.params)
		return true
	case syscall.VectorSoftError:
		k.handleFault(ev.from, ev.fault)
		return true
	default:
		idx := int(ev.vector - syscall.VectorDevice0)
		k.handlers[idx](k)
		if done, ok := ev.fault.(chan struct{}); ok {
			close(done)
		}
		return false
	}
}

// PostToMailbox lets a registered Handler deliver a message into mbox
// as if sent by thread.None, without going through Caller.Trap — the
// handler already runs on the kernel goroutine with the admission gate
// held, so it talks to the mailbox table directly. internal/console
// uses this to hand a host keystroke to whichever thread is blocked
// receiving on its input mailbox.
func (k *Kernel) PostToMailbox(mbox, size int, payload unsafe.Pointer) bool {
	p := &syscall.SendParams{Mbox: mbox, Size: size, Ptr: payload}
	k.doSend(thread.None, p)
	return p.Ret >= 0
}

// handleFault drops a faulted thread without re-enqueueing it — the
// Go analogue of a hardware exception that never returns to its
// faulting instruction — logs the diagnostic, and frees its slot so
// it can be reused. thread_end's own id is left permanently off every
// ready queue, matching spec.md §4.4.
func (k *Kernel) handleFault(id thread.ID, recovered any) {
	t := k.pool.Get(id)
	if t == nil {
		return
	}
	k.logger.ThreadDown(t.Name())
	k.logger.Tracef("fault: %v", recovered)
	k.pool.Free(t)
	k.handles[id-1] = nil
	if k.current == id {
		k.current = thread.None
	}
}

// triggerHalt records a fatal, unrecoverable condition. The run loop
// notices haltErr on its next check and stops processing further
// traps, the Go analogue of kz_sysdown halting the CPU.
func (k *Kernel) triggerHalt(reason string, err error) {
	if k.haltErr != nil {
		return
	}
	k.logger.SystemDown(reason)
	k.haltErr = err
}
