// Package klog is the kernel's diagnostic output: thread-fatal and
// system-down markers, plus terse boot/scheduling traces. It is kept
// separate from internal/console (which carries thread-printed user
// output) so a misbehaving console driver can never suppress the
// kernel's own diagnostics.
package klog

import (
	"io"
	"log"
)

// Logger is a thin wrapper over the standard library's log.Logger,
// matching the terse, unadorned prefix style of the teacher's debug
// monitor output rather than a structured key=value format — this
// kernel has no metrics or tracing surface to justify one.
type Logger struct {
	l *log.Logger
}

// New creates a Logger writing to w with no timestamp prefix, so
// output stays byte-for-byte comparable across test runs.
func New(w io.Writer) *Logger {
	return &Logger{l: log.New(w, "", 0)}
}

// ThreadDown prints the thread-fatal marker spec.md §8 scenario 5
// requires literally: "<name>DOWN\n" on one line, the same output as
// kozos's two puts() calls (name, then "DOWN\n").
func (lg *Logger) ThreadDown(name string) {
	lg.l.Printf("%sDOWN", name)
}

// ThreadExit prints the normal-exit marker as two lines: the thread's
// name, then "exit", one line for each of kozos's thread_exit
// puts(name)/puts("exit") calls.
func (lg *Logger) ThreadExit(name string) {
	lg.l.Printf("%s", name)
	lg.l.Printf("exit")
}

// SystemDown prints the fatal system-down diagnostic. Callers halt
// (or, in this port, return a Halt error) immediately after.
func (lg *Logger) SystemDown(reason string) {
	lg.l.Printf("system error!")
	lg.l.Printf("reason: %s", reason)
}

// Tracef prints a low-volume diagnostic line, e.g. boot milestones.
// Never called from a hot scheduling path.
func (lg *Logger) Tracef(format string, args ...any) {
	lg.l.Printf(format, args...)
}

// SetOutput redirects the logger, e.g. so cmd/kozosim can capture
// kernel diagnostics into its own run log.
func (lg *Logger) SetOutput(w io.Writer) {
	lg.l.SetOutput(w)
}
