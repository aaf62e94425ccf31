// Package platform is the kernel's one intrinsic boundary: the thing
// spec.md places entirely out of scope as "a platform-provided routine
// that saves CPU registers to the running thread's stack and loads
// them from a target stack." There is no real CPU register file to
// save here, so the boundary is realized with one goroutine per thread
// and a per-thread "baton" channel: the kernel hands a thread the
// baton to run it, and the thread hands it back (by trapping) to
// suspend. At most one goroutine ever holds a baton at a time, which
// is the Go-native restatement of "exactly one thread is current."
package platform

// InitialFrame is the synthesized starting context spec.md §4.3 has
// thread_run hand-build on top of a raw stack. Here it is simply the
// trampoline's arguments, handed across the intrinsic boundary once,
// at Spawn time.
type InitialFrame struct {
	// Entry is the thread's top-level function.
	Entry func(argv []string)
	// Argv is passed to Entry verbatim.
	Argv []string
	// InterruptsMasked mirrors spec.md's priority-0 program-status-word
	// bit: true means the thread runs with its own interrupts masked.
	// Go cannot halt an already-running goroutine from outside, so this
	// bit's full effect is approximate here — see internal/kernel's
	// dispatch documentation — but it is still synthesized bit-exact
	// into the frame, per spec.md §9's hard requirement.
	InterruptsMasked bool
	// OnExit is invoked exactly once when Entry returns, in place of
	// thread_end appending an exit syscall after the trampoline's call
	// to the entry function.
	OnExit func()
	// OnFault is invoked if Entry panics, in place of a software-error
	// trap from an invalid memory access. The recovered value is
	// passed through for diagnostics.
	OnFault func(recovered any)
}

// Thread is one thread's goroutine handle: a baton channel the kernel
// uses to resume it. Thread knows nothing about TCBs, priorities, or
// syscalls — those live in internal/kernel. It only knows how to be
// resumed and how to block until resumed.
type Thread struct {
	baton chan struct{}
}

// Spawn starts frame.Entry on its own goroutine, blocked immediately
// on the returned Thread's baton. Call Resume to let it run the first
// time; the same Thread is reused for every subsequent trap/resume
// cycle of this thread's life.
func Spawn(frame InitialFrame) *Thread {
	th := &Thread{baton: make(chan struct{})}
	go th.trampoline(frame)
	return th
}

// trampoline is the Go analogue of spec.md's synthesized initial
// stack: wait for the first dispatch, run the entry function, and on
// return (or panic) hand control back to the kernel through OnExit /
// OnFault exactly once — mirroring thread_init()'s "calls func(argc,
// argv) and, on return, invokes the exit syscall." A thread that exits
// or faults never calls Suspend again; its goroutine blocks forever on
// whatever baton receive its last syscall made, the Go analogue of
// spec.md's "stack memory is not reclaimed."
func (th *Thread) trampoline(frame InitialFrame) {
	th.Suspend()
	defer func() {
		if r := recover(); r != nil && frame.OnFault != nil {
			frame.OnFault(r)
		}
	}()
	frame.Entry(frame.Argv)
	if frame.OnExit != nil {
		frame.OnExit()
	}
}

// Resume hands the baton to th, letting its goroutine run until it
// next calls Suspend. Resume does not wait for that to happen; the
// kernel learns a thread has trapped back in through its own trap
// call, not through Resume's return.
func (th *Thread) Resume() {
	th.baton <- struct{}{}
}

// Suspend blocks the calling goroutine until the kernel next calls
// Resume. Only a thread's own trampoline goroutine — via a syscall
// trap issued on its own behalf — ever calls this.
func (th *Thread) Suspend() {
	<-th.baton
}
