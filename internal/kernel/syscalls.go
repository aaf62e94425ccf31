package kernel

import (
	"github.com/kozos-go/kozos/internal/kernel/mailbox"
	"github.com/kozos-go/kozos/internal/kernel/syscall"
	"github.com/kozos-go/kozos/internal/kernel/thread"
)

// callFunctions interprets one syscall trap from thread from, the Go
// analogue of kozos's call_functions dispatch table. Every arm below
// follows spec.md §4.5's re-enqueue column: unless the comment says
// otherwise, from is re-enqueued at the tail of its (possibly new)
// priority queue before scheduleAndDispatch picks the next thread to
// run, which may well be the same thread again.
func (k *Kernel) callFunctions(from thread.ID, p *syscall.Params) {
	switch p.Type {
	case syscall.Run:
		k.doRun(from, p.Run)
		k.requeueCurrent(from)

	case syscall.Exit:
		k.doExit(from)
		// from's slot is already freed; never re-enqueued.

	case syscall.Wait:
		k.requeueCurrent(from)

	case syscall.Sleep:
		// Dropped from every ready queue until a matching Wakeup;
		// nothing to re-enqueue here.

	case syscall.Wakeup:
		k.doWakeup(p.Wakeup)
		k.requeueCurrent(from)

	case syscall.GetID:
		p.GetID.Ret = int32(from)
		k.requeueCurrent(from)

	case syscall.ChPri:
		k.doChPri(from, p.ChPri)
		k.requeueCurrent(from)

	case syscall.KMalloc:
		p.KMalloc.Ret = k.heap.Alloc(p.KMalloc.Size)
		k.requeueCurrent(from)

	case syscall.KMFree:
		k.heap.Free(p.KMFree.Ptr)
		k.requeueCurrent(from)

	case syscall.Send:
		k.doSend(from, p.Send)
		k.requeueCurrent(from)

	case syscall.Recv:
		if !k.doRecv(from, p.Recv) {
			// No message waiting: from is parked as the mailbox's
			// blocked receiver and must not be re-enqueued, matching
			// spec.md §4.1's "at most one blocked receiver per
			// mailbox" invariant.
			return
		}
		k.requeueCurrent(from)

	default:
		k.triggerHalt("unknown syscall type", ErrSystemDown)
	}
}

// doRun creates a new thread per p and writes its ID (or
// thread.Invalid) back into p.Ret.
func (k *Kernel) doRun(_ thread.ID, p *syscall.RunParams) {
	entry, ok := p.Func.(EntryFunc)
	if !ok {
		p.Ret = int32(thread.Invalid)
		return
	}
	t, err := k.spawnThread(p.Name, p.Priority, p.StackSize, entry, p.Argv)
	if err != nil {
		k.logger.Tracef("run: %v", err)
		p.Ret = int32(thread.Invalid)
		return
	}
	p.Ret = int32(t.ID())
}

// doExit frees the exiting thread's slot and logs the exit marker.
// Its goroutine is left parked forever on its next Suspend call, the
// Go analogue of its stack never being reclaimed.
func (k *Kernel) doExit(id thread.ID) {
	t := k.pool.Get(id)
	if t == nil {
		return
	}
	k.logger.ThreadExit(t.Name())
	k.pool.Free(t)
	k.handles[id-1] = nil
	k.pendingRecv[id-1] = nil
	if k.current == id {
		k.current = thread.None
	}
}

// doWakeup re-enqueues p.Target if it is currently off every ready
// queue (e.g. asleep). Waking an
// already-ready or nonexistent thread is a no-op, matching spec.md
// §9's "double-wakeup is harmless."
func (k *Kernel) doWakeup(p *syscall.WakeupParams) {
	t := k.pool.Get(thread.ID(p.Target))
	if t == nil || !t.InUse() {
		return
	}
	k.pool.Enqueue(t)
}

// doChPri changes from's priority, returning the old value through
// OldRet. Priority < 0 means "read only," per spec.md §6. The new
// priority only takes effect the next time from is enqueued —
// callFunctions always calls requeueCurrent after this returns, so it
// takes effect immediately, matching kozos's kz_chpri behaviour of
// re-ranking the caller on its own next dispatch.
func (k *Kernel) doChPri(id thread.ID, p *syscall.ChPriParams) {
	t := k.pool.Get(id)
	if t == nil {
		return
	}
	p.OldRet = t.Priority()
	if p.Priority >= 0 {
		t.SetPriority(p.Priority)
	}
}

// doSend enqueues a message descriptor for p.Mbox. If a receiver is
// already blocked on that mailbox, the message is delivered to it
// immediately and it is woken; otherwise the message simply waits in
// the mailbox's FIFO for a future Recv. Allocation failure is treated
// as fatal, per spec.md §4.1's documented policy.
func (k *Kernel) doSend(from thread.ID, p *syscall.SendParams) {
	mbox := k.mboxes.Get(p.Mbox)
	if mbox == nil {
		p.Ret = -1
		return
	}
	if !k.mboxes.Enqueue(mbox, from, p.Size, p.Ptr) {
		p.Ret = -1
		k.triggerHalt("mailbox descriptor allocation failed", ErrSystemDown)
		return
	}
	p.Ret = p.Size

	if mbox.Receiver == thread.None {
		return
	}
	receiverID := mbox.Receiver
	rp := k.pendingRecv[receiverID-1]
	if rp == nil {
		return
	}
	mbox.Receiver = thread.None
	k.pendingRecv[receiverID-1] = nil
	k.deliverInto(mbox, rp)
	if t := k.pool.Get(receiverID); t != nil {
		k.pool.Enqueue(t)
	}
}

// doRecv attempts an immediate delivery for from out of p.Mbox. It
// returns true if a message was waiting (and writes the result fields
// through p's pointers), or false if from must block: the caller is
// recorded as p.Mbox's receiver and its RecvParams are parked in
// pendingRecv for doSend to find later. A second thread trying to
// block-receive on a mailbox that already has a blocked receiver is a
// fatal usage error, per spec.md §4.2/§7(i)/P5: at most one blocked
// receiver per mailbox, ever.
func (k *Kernel) doRecv(from thread.ID, p *syscall.RecvParams) bool {
	mbox := k.mboxes.Get(p.Mbox)
	if mbox == nil {
		return true // nothing to block on; caller sees zero values
	}
	if mbox.Pending() {
		k.deliverInto(mbox, p)
		return true
	}
	if mbox.Receiver != thread.None {
		k.triggerHalt("second concurrent receiver on mailbox", ErrSystemDown)
		return true
	}
	mbox.Receiver = from
	k.pendingRecv[from-1] = p
	return false
}

// deliverInto pops mbox's head message and writes it through p's
// pointer fields, the Go analogue of recvmsg copying the descriptor's
// fields into the caller's syscall parameter block.
func (k *Kernel) deliverInto(mbox *mailbox.Mailbox, p *syscall.RecvParams) {
	sender, size, payload := k.mboxes.Deliver(mbox)
	p.Sender = int32(sender)
	if p.SizeOut != nil {
		*p.SizeOut = size
	}
	if p.PtrOut != nil {
		*p.PtrOut = payload
	}
}
