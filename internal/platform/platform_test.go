package platform

import (
	"testing"
	"time"
)

func TestSpawnBlocksUntilFirstResume(t *testing.T) {
	ran := make(chan struct{})
	th := Spawn(InitialFrame{
		Entry: func([]string) { close(ran) },
	})

	select {
	case <-ran:
		t.Fatal("Entry ran before the first Resume")
	case <-time.After(20 * time.Millisecond):
	}

	th.Resume()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("Entry never ran after Resume")
	}
}

func TestOnExitRunsAfterEntryReturns(t *testing.T) {
	exited := make(chan struct{})
	th := Spawn(InitialFrame{
		Entry:  func([]string) {},
		OnExit: func() { close(exited) },
	})
	th.Resume()

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("OnExit never ran")
	}
}

func TestOnFaultRunsWhenEntryPanics(t *testing.T) {
	var recovered any
	done := make(chan struct{})
	th := Spawn(InitialFrame{
		Entry: func([]string) { panic("boom") },
		OnFault: func(r any) {
			recovered = r
			close(done)
		},
	})
	th.Resume()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnFault never ran")
	}
	if recovered != "boom" {
		t.Fatalf("recovered value: got %v, want %q", recovered, "boom")
	}
}

func TestArgvIsPassedThrough(t *testing.T) {
	var got []string
	done := make(chan struct{})
	th := Spawn(InitialFrame{
		Entry: func(argv []string) {
			got = argv
			close(done)
		},
		Argv: []string{"a", "b"},
	})
	th.Resume()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Entry never ran")
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("argv: got %v, want [a b]", got)
	}
}
