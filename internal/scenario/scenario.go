// Package scenario is the runnable demo table cmd/kozosim boots from:
// one entry point per end-to-end scenario this kernel is built to
// satisfy. Every scenario follows the same shape — a low- or
// high-priority "boot" thread that creates a small number of worker
// threads in a specific order chosen to produce a deterministic,
// documented schedule — the Go analogue of the original's test0N_1
// hand-written demo threads.
package scenario

import (
	"fmt"
	"sort"

	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/kapi"
)

// stackSize is generous for a goroutine-backed "thread": the carved
// region is bookkeeping only, never actually used as a Go call stack.
const stackSize = 4096

// Boot returns the kernel's very first entry point plus the arguments
// kernel.Start needs: name, priority, stack size, argv.
type Boot func(k *kernel.Kernel) (entry kernel.EntryFunc, name string, priority, stackSize int, argv []string)

var registry = map[string]Boot{
	"priorities":         bootPriorities,
	"yield":              bootYield,
	"mailbox-recv-first": bootMailboxRecvFirst,
	"mailbox-send-first": bootMailboxSendFirst,
	"fault":              bootFault,
	"chpri":              bootChPri,
}

// Get looks up a scenario by name.
func Get(name string) (Boot, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names lists every registered scenario, sorted for stable --help text.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// printLine is the scenarios' shared output path: every worker prints
// to stdout through fmt (this helper, or fmt.Printf in the mailbox
// scenarios) rather than a console.Device, since these
// are scripted demos whose assertions are on stdout order, not on
// interrupt-driven device I/O (internal/console is exercised directly
// by its own tests instead).
func printLine(s string) { fmt.Println(s) }
