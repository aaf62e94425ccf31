// Command kozosim boots the kernel with one of a fixed table of named
// entry points — the stand-in for "the CLI-style user test threads"
// spec.md treats as an external collaborator — and runs it to
// completion or system-down. Grounded on the teacher's
// cmd/ie32to64/main.go (flag parsing, os.Exit on failure) and main.go's
// boot sequence.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/xid"

	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/kconfig"
	"github.com/kozos-go/kozos/internal/scenario"
)

func main() {
	name := flag.String("scenario", "priorities", fmt.Sprintf("scenario to run: %v", scenario.Names()))
	flag.Parse()

	runID := xid.New().String()

	boot, ok := scenario.Get(*name)
	if !ok {
		fmt.Fprintf(os.Stderr, "kozosim[%s]: unknown scenario %q (have: %v)\n", runID, *name, scenario.Names())
		os.Exit(2)
	}

	cfg := kconfig.Default()
	k, err := kernel.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kozosim[%s]: %v\n", runID, err)
		os.Exit(1)
	}
	k.Logger().Tracef("run %s: booting scenario %q", runID, *name)

	entry, initName, priority, stackSize, argv := boot(k)
	err = k.Start(entry, initName, priority, stackSize, argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kozosim[%s]: halted: %v\n", runID, err)
		os.Exit(1)
	}
}
