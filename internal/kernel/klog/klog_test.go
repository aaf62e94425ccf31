package klog

import (
	"bytes"
	"strings"
	"testing"
)

func TestThreadDownPrintsNameThenDownMarker(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf)
	lg.ThreadDown("faulty")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 || lines[0] != "faultyDOWN" {
		t.Fatalf("ThreadDown output: got %q, want [\"faultyDOWN\"]", lines)
	}
}

func TestThreadExitPrintsNameThenExitMarker(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf)
	lg.ThreadExit("worker")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 || lines[0] != "worker" || lines[1] != "exit" {
		t.Fatalf("ThreadExit output: got %q, want [\"worker\" \"exit\"]", lines)
	}
}

func TestSetOutputRedirects(t *testing.T) {
	var first, second bytes.Buffer
	lg := New(&first)
	lg.Tracef("to first")
	lg.SetOutput(&second)
	lg.Tracef("to second")

	if !strings.Contains(first.String(), "to first") {
		t.Fatalf("first buffer: got %q, want it to contain %q", first.String(), "to first")
	}
	if strings.Contains(first.String(), "to second") {
		t.Fatalf("first buffer: got %q, want it to not contain %q", first.String(), "to second")
	}
	if !strings.Contains(second.String(), "to second") {
		t.Fatalf("second buffer: got %q, want it to contain %q", second.String(), "to second")
	}
}
