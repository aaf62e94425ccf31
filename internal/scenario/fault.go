package scenario

import (
	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/kapi"
)

// bootFault is spec.md §8 scenario 5: a thread panics as soon as it
// runs, which the platform trampoline recovers and reports through
// TrapFault instead of crashing the process. The kernel logs the
// thread down, frees its TCB, and keeps going — demonstrated by
// creating a second, unrelated thread afterward that runs to
// completion normally.
func bootFault(k *kernel.Kernel) (kernel.EntryFunc, string, int, int, []string) {
	entry := func(c kernel.Caller, argv []string) {
		kapi.Run(c, faultyWorker, "faulty", 1, stackSize, nil)
		kapi.Run(c, runToCompletion, "survivor", 1, stackSize, []string{"SURVIVOR"})
		idleDone(c)
	}
	return entry, "idle", idlePriority, stackSize, nil
}

func faultyWorker(c kernel.Caller, argv []string) {
	panic("deliberate fault")
}
