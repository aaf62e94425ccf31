package kernel

import (
	"context"
	"fmt"

	"github.com/kozos-go/kozos/internal/kernel/syscall"
	"github.com/kozos-go/kozos/internal/kernel/thread"
	"github.com/kozos-go/kozos/internal/platform"
)

// vectorBoot is a kernel-internal sentinel for the very first
// dispatch, submitted by Start once the run goroutine is listening.
// It is negative so it can never collide with syscall.VectorSyscall,
// syscall.VectorSoftError, or a registered device vector.
const vectorBoot syscall.Vector = -1

// Start creates the system's first thread, launches the kernel's run
// goroutine, and blocks until the kernel halts on any system-down
// condition (ErrSystemDown), most commonly every ready queue having
// gone empty. It is the Go analogue of kz_start: the
// original never returns except by halting the CPU, so neither does
// this, until the simulated system itself goes down.
func (k *Kernel) Start(entry EntryFunc, name string, priority, stackSize int, argv []string) error {
	if _, err := k.spawnThread(name, priority, stackSize, entry, argv); err != nil {
		return err
	}
	go k.run()
	if err := k.gate.Acquire(context.Background(), 1); err != nil {
		return fmt.Errorf("kernel: admission gate acquire failed: %w", err)
	}
	k.trapCh <- trapEvent{from: thread.None, vector: vectorBoot}
	<-k.halted
	return k.haltErr
}

// spawnThread allocates a TCB, carves its stack, spawns its goroutine,
// wires up the Caller it uses for every subsequent trap, and enqueues
// it as ready — matching kozos's kz_run, which makes a newly created
// thread immediately schedulable.
func (k *Kernel) spawnThread(name string, priority int, stackSize int, entry EntryFunc, argv []string) (*thread.TCB, error) {
	if priority < 0 || priority >= k.pool.PriorityNum() {
		return nil, fmt.Errorf("kernel: invalid priority %d", priority)
	}
	base, ok := k.stack.Carve(stackSize)
	if !ok {
		return nil, fmt.Errorf("kernel: stack region exhausted allocating %d bytes for %q", stackSize, name)
	}

	var caller Caller
	wrapped := func(argv []string) { entry(caller, argv) }
	t := k.pool.Alloc(name, priority, wrapped, argv)
	if t == nil {
		return nil, fmt.Errorf("kernel: thread pool exhausted creating %q", name)
	}
	t.StackBase = base
	t.StackSize = stackSize

	th := platform.Spawn(platform.InitialFrame{
		Entry:            wrapped,
		Argv:             argv,
		InterruptsMasked: priority == 0,
		OnExit:           func() { caller.Trap(syscall.Exit, &syscall.Params{}) },
		OnFault:          func(r any) { caller.TrapFault(r) },
	})
	caller = Caller{id: t.ID(), k: k, th: th}
	k.handles[t.ID()-1] = th

	k.pool.Enqueue(t)
	return t, nil
}
