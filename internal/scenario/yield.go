package scenario

import (
	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/kapi"
)

// yieldBootPriority outranks the two workers below, so the boot thread
// creates both before either ever runs, then exits out of the way —
// leaving exactly two same-priority threads to alternate by FIFO
// re-enqueue order (property P2).
const yieldBootPriority = 0
const yieldWorkerPriority = 2
const yieldIterations = 4

// bootYield is spec.md §8 scenario 2: two prio-2 threads each print
// their name once per loop iteration and call wait. With nothing else
// ready at their priority, P2's FIFO guarantee makes the printed
// sequence alternate perfectly, starting with whichever was enqueued
// first (A).
func bootYield(k *kernel.Kernel) (kernel.EntryFunc, string, int, int, []string) {
	entry := func(c kernel.Caller, argv []string) {
		kapi.Run(c, yieldWorker, "a", yieldWorkerPriority, stackSize, []string{"A"})
		kapi.Run(c, yieldWorker, "b", yieldWorkerPriority, stackSize, []string{"B"})
		kapi.Exit(c)
	}
	return entry, "boot", yieldBootPriority, stackSize, nil
}

func yieldWorker(c kernel.Caller, argv []string) {
	name := argv[0]
	for i := 0; i < yieldIterations; i++ {
		printLine(name)
		kapi.Wait(c)
	}
	kapi.Exit(c)
}
