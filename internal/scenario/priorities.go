package scenario

import (
	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/kapi"
)

// idlePriority is lower than every worker priority used below, so
// creating a worker always preempts the idle/boot thread immediately —
// the mechanism every scenario in this package relies on to produce a
// deterministic schedule.
const idlePriority = 15

// bootPriorities is spec.md §8 scenario 1: three threads at strictly
// increasing priority numbers (decreasing precedence), created in
// order from an idle thread. Because idle outranks nothing, each
// created thread preempts idle and runs to completion before idle is
// ever resumed to create the next one — producing exactly "T1 first,
// then T2, then T3, then idle resumes."
func bootPriorities(k *kernel.Kernel) (kernel.EntryFunc, string, int, int, []string) {
	entry := func(c kernel.Caller, argv []string) {
		kapi.Run(c, runToCompletion, "t1", 1, stackSize, []string{"T1"})
		kapi.Run(c, runToCompletion, "t2", 2, stackSize, []string{"T2"})
		kapi.Run(c, runToCompletion, "t3", 3, stackSize, []string{"T3"})
		idleDone(c)
	}
	return entry, "idle", idlePriority, stackSize, nil
}

func runToCompletion(c kernel.Caller, argv []string) {
	printLine(argv[0])
	kapi.Exit(c)
}

// idleDone is the idle thread's final act once it has created every
// worker this scenario needs: with nothing left to spawn, idle simply
// exits, letting the ready queue drain to empty and the kernel halt —
// the demo-runner analogue of a real idle thread's infinite low-power
// loop, which this one-shot simulation has no reason to imitate.
func idleDone(c kernel.Caller) {
	kapi.Exit(c)
}
