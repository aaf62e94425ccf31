// Package kernel is the scheduler and trap dispatcher: the single
// serialized decision-maker that owns the thread pool, the ready
// queues, the mailbox table, and the heap, and is the only code
// permitted to mutate any of them. Every other package in this module
// either supplies kernel with a data structure (thread, mailbox, heap)
// or is supplied by kernel to the outside world (kapi).
//
// Concurrency model: spec.md's single-core microcontroller runs
// exactly one thread at a time and processes traps with interrupts
// disabled. Here, every thread is its own goroutine holding a
// *platform.Thread baton, and exactly one of them ever runs
// unsuspended at a time by construction: scheduleAndDispatch resumes
// the new current thread only after the previous one has already
// trapped (or faulted) back in. "Interrupts disabled while the kernel
// processes a trap" is realized with an explicit admission gate
// (golang.org/x/sync/semaphore, weight 1): a thread or device must
// acquire it before a trap is even enqueued, and the kernel goroutine
// releases it only once that trap's processing and redispatch are
// both complete.
package kernel

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/semaphore"

	"github.com/kozos-go/kozos/internal/kernel/heap"
	"github.com/kozos-go/kozos/internal/kernel/kconfig"
	"github.com/kozos-go/kozos/internal/kernel/klog"
	"github.com/kozos-go/kozos/internal/kernel/mailbox"
	"github.com/kozos-go/kozos/internal/kernel/syscall"
	"github.com/kozos-go/kozos/internal/kernel/thread"
	"github.com/kozos-go/kozos/internal/platform"
)

// EntryFunc is a thread's top-level function as seen by kapi callers:
// it receives a Caller so it can issue further syscalls on its own
// behalf. internal/kernel wraps one of these into the unparameterized
// thread.EntryFunc the thread package itself understands.
type EntryFunc func(c Caller, argv []string)

// Handler is a device interrupt service routine. It runs on the
// kernel's own goroutine with the admission gate already held, so it
// may freely read and write kernel state — it must not block.
type Handler func(k *Kernel)

// Caller is the capability a running thread holds to trap back into
// the kernel. It is created once per thread, at the same time as that
// thread's platform.Thread, and handed to the thread's EntryFunc and
// to every kapi call it makes — never looked up by ID at trap time, so
// a trap submitted by a thread can never be confused with a different
// thread that has since reused its TCB slot.
type Caller struct {
	id thread.ID
	k  *Kernel
	th *platform.Thread
}

// ID returns the calling thread's opaque identity.
func (c Caller) ID() thread.ID { return c.id }

// Trap submits a syscall request and blocks the calling goroutine
// until the kernel redispatches it. p.Type is set to typ before
// submission. Trap must only ever be called by a thread on its own
// behalf, from its own goroutine.
func (c Caller) Trap(typ syscall.Type, p *syscall.Params) {
	p.Type = typ
	if err := c.k.gate.Acquire(context.Background(), 1); err != nil {
		panic(fmt.Sprintf("kernel: admission gate acquire failed: %v", err))
	}
	c.k.trapCh <- trapEvent{from: c.id, vector: syscall.VectorSyscall, params: p}
	c.th.Suspend()
}

// TrapFault reports that the calling thread panicked, the Go analogue
// of a hardware fault delivering the software-error vector. The
// goroutine that calls this never runs again: the kernel drops the
// thread without re-enqueueing it, matching spec.md §4.4's handling of
// an unrecoverable thread.
func (c Caller) TrapFault(recovered any) {
	if err := c.k.gate.Acquire(context.Background(), 1); err != nil {
		panic(fmt.Sprintf("kernel: admission gate acquire failed: %v", err))
	}
	c.k.trapCh <- trapEvent{from: c.id, vector: syscall.VectorSoftError, fault: recovered}
	c.th.Suspend()
}

// trapEvent is one admitted entry into the kernel: either a thread's
// syscall or fault, or a device interrupt. from is thread.None for
// device events.
type trapEvent struct {
	from   thread.ID
	vector syscall.Vector
	params *syscall.Params
	fault  any
}

// Kernel holds every piece of mutable kernel state. All fields below
// are touched only from the kernel's own run goroutine after New
// returns and Start has launched it — no external synchronization is
// needed on them beyond the admission gate that serializes entry.
type Kernel struct {
	cfg    kconfig.Config
	pool   *thread.Pool
	mboxes *mailbox.Table
	heap   *heap.Heap
	stack  *platform.StackRegion
	logger *klog.Logger

	handlers []Handler

	current thread.ID
	handles []*platform.Thread

	// pendingRecv holds a blocked receiver's request, indexed by
	// TCB-id-1, so Send can find and satisfy it directly instead of
	// scanning every thread. nil means that slot has no blocked
	// receive outstanding.
	pendingRecv []*syscall.RecvParams

	trapCh chan trapEvent
	gate   *semaphore.Weighted

	halted  chan struct{}
	haltErr error
}

// New builds a kernel from cfg but does not start it; call Start to
// boot the first thread and begin processing traps.
func New(cfg kconfig.Config) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	stack, err := platform.NewStackRegion(cfg.StackRegionSize)
	if err != nil {
		return nil, err
	}
	h := heap.New(cfg.HeapClasses, cfg.HeapClassCount)
	k := &Kernel{
		cfg:         cfg,
		pool:        thread.NewPool(cfg.ThreadNum, cfg.PriorityNum, cfg.ThreadNameSize),
		mboxes:      mailbox.NewTable(cfg.MsgboxNum, h),
		heap:        h,
		stack:       stack,
		logger:      klog.New(os.Stderr),
		current:     thread.None,
		handles:     make([]*platform.Thread, cfg.ThreadNum),
		pendingRecv: make([]*syscall.RecvParams, cfg.ThreadNum),
		trapCh:      make(chan trapEvent),
		gate:        semaphore.NewWeighted(1),
		halted:      make(chan struct{}),
	}
	return k, nil
}

// Logger exposes the kernel's diagnostic sink, e.g. for cmd/kozosim to
// redirect at startup.
func (k *Kernel) Logger() *klog.Logger { return k.logger }

// Mailboxes exposes the kernel's mailbox table. kapi's Send/Recv
// wrappers do not use it; they go through Caller.Trap.
func (k *Kernel) Mailboxes() *mailbox.Table { return k.mboxes }
