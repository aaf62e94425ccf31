package scenario

import (
	"bufio"
	"os"
	"testing"
	"time"

	"github.com/kozos-go/kozos/internal/kernel"
	"github.com/kozos-go/kozos/internal/kernel/kconfig"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// every line fn's code printed through printLine/fmt.Println.
func captureStdout(t *testing.T, fn func()) []string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan []string, 1)
	go func() {
		var lines []string
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		done <- lines
	}()

	fn()
	w.Close()

	select {
	case lines := <-done:
		return lines
	case <-time.After(2 * time.Second):
		t.Fatal("timed out reading captured stdout")
		return nil
	}
}

func runScenario(t *testing.T, name string) []string {
	t.Helper()
	boot, ok := Get(name)
	if !ok {
		t.Fatalf("Get(%q): not registered", name)
	}
	return captureStdout(t, func() {
		k, err := kernel.New(kconfig.Default())
		if err != nil {
			t.Fatalf("kernel.New: %v", err)
		}
		entry, initName, priority, stackSize, argv := boot(k)
		if err := k.Start(entry, initName, priority, stackSize, argv); err != kernel.ErrSystemDown {
			t.Fatalf("Start(%q): got %v, want %v", name, err, kernel.ErrSystemDown)
		}
	})
}

func TestNamesListsEveryRegisteredScenario(t *testing.T) {
	names := Names()
	want := []string{"chpri", "fault", "mailbox-recv-first", "mailbox-send-first", "priorities", "yield"}
	if len(names) != len(want) {
		t.Fatalf("Names(): got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names()[%d]: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestGetUnknownScenario(t *testing.T) {
	if _, ok := Get("does-not-exist"); ok {
		t.Fatal("Get of an unregistered name: want ok=false")
	}
}

func TestPrioritiesScenarioRunsInCreationOrder(t *testing.T) {
	got := runScenario(t, "priorities")
	want := []string{"T1", "T2", "T3"}
	if len(got) != len(want) {
		t.Fatalf("priorities output: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("priorities output[%d]: got %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestYieldScenarioAlternates(t *testing.T) {
	got := runScenario(t, "yield")
	want := []string{"A", "B", "A", "B", "A", "B", "A", "B"}
	if len(got) != len(want) {
		t.Fatalf("yield output: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("yield output[%d]: got %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestMailboxRecvFirstScenarioDeliversStaticMessage(t *testing.T) {
	got := runScenario(t, "mailbox-recv-first")
	if len(got) != 1 {
		t.Fatalf("mailbox-recv-first output: got %v, want exactly one line", got)
	}
	want := "recv from 3, 14 bytes: static memory"
	if got[0] != want {
		t.Fatalf("mailbox-recv-first output[0]: got %q, want %q", got[0], want)
	}
}

func TestMailboxSendFirstScenarioDeliversAllocatedMessage(t *testing.T) {
	got := runScenario(t, "mailbox-send-first")
	if len(got) != 1 {
		t.Fatalf("mailbox-send-first output: got %v, want exactly one line", got)
	}
	want := "recv from 2, 18 bytes: allocated memory"
	if got[0] != want {
		t.Fatalf("mailbox-send-first output[0]: got %q, want %q", got[0], want)
	}
}

func TestFaultScenarioSurvivorRuns(t *testing.T) {
	got := runScenario(t, "fault")
	if len(got) != 1 || got[0] != "SURVIVOR" {
		t.Fatalf("fault output: got %v, want [%q]", got, "SURVIVOR")
	}
}

func TestChPriScenarioWorkerOutrunsSleeperUntilItExits(t *testing.T) {
	got := runScenario(t, "chpri")
	want := []string{"worker start", "3", "worker still running", "sleeper woke"}
	if len(got) != len(want) {
		t.Fatalf("chpri output: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chpri output[%d]: got %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}
