package scenario

import (
	"strconv"

	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/kapi"
	"github.com/kozos-go/kozos/internal/kernel/thread"
)

const (
	chpriSleeperPriority = 1
	chpriWorkerPriority  = 3
	chpriRaisedPriority  = 0
)

// bootChPri is spec.md §8 scenario 6: a sleeper thread parks itself
// off every ready queue before the worker is even created, so waking
// it later can't be satisfied by coincidence of creation order. The
// worker then raises its own priority above the sleeper's and wakes
// it; because the worker now outranks the sleeper, the Wakeup does not
// preempt it, and the sleeper only runs once the worker has exited.
func bootChPri(k *kernel.Kernel) (kernel.EntryFunc, string, int, int, []string) {
	entry := func(c kernel.Caller, argv []string) {
		sleeper := kapi.Run(c, chpriSleeper, "sleeper", chpriSleeperPriority, stackSize, nil)
		kapi.Run(c, chpriWorker, "worker", chpriWorkerPriority, stackSize, []string{strconv.Itoa(int(sleeper))})
		idleDone(c)
	}
	return entry, "idle", idlePriority, stackSize, nil
}

func chpriSleeper(c kernel.Caller, argv []string) {
	kapi.Sleep(c)
	printLine("sleeper woke")
	kapi.Exit(c)
}

func chpriWorker(c kernel.Caller, argv []string) {
	printLine("worker start")
	old := kapi.ChangePriority(c, chpriRaisedPriority)
	printLine(strconv.Itoa(old))
	target, _ := strconv.Atoi(argv[0])
	kapi.Wakeup(c, thread.ID(target))
	printLine("worker still running")
	kapi.Exit(c)
}
