package console

import (
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/kozos-go/kozos/internal/kernel"
)

// TerminalHost puts stdin into raw mode and feeds each byte it reads
// into a Device's input queue, raising that device's interrupt per
// byte. Grounded directly on the teacher's terminal_host.go: raw mode
// via golang.org/x/term, non-blocking reads via golang.org/x/sys so a
// Stop call can always unblock the reader goroutine promptly.
type TerminalHost struct {
	dev *Device
	k   *kernel.Kernel

	fd          int
	oldState    *term.State
	nonblockSet bool
	stopCh      chan struct{}
	done        chan struct{}
	stopped     sync.Once
}

// NewTerminalHost creates a host that feeds dev from stdin once
// started. Only meant for interactive use — tests and cmd/kozosim's
// scripted scenarios use a plain io.Writer sink instead.
func NewTerminalHost(dev *Device, k *kernel.Kernel) *TerminalHost {
	return &TerminalHost{
		dev:    dev,
		k:      k,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw, non-blocking mode and begins reading in a
// background goroutine. Call Stop to restore stdin.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return err
	}
	h.oldState = oldState

	if err := unix.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldState)
		close(h.done)
		return err
	}
	h.nonblockSet = true

	go h.readLoop()
	return nil
}

func (h *TerminalHost) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := unix.Read(h.fd, buf)
		if n > 0 {
			b := buf[0]
			if b == '\r' {
				b = '\n'
			}
			h.dev.PushInput(h.k, b)
		}
		switch {
		case err == unix.EAGAIN:
			time.Sleep(5 * time.Millisecond)
		case err != nil:
			return
		case n == 0:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Stop terminates the reader goroutine and restores stdin.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() { close(h.stopCh) })
	<-h.done
	if h.nonblockSet {
		_ = unix.SetNonblock(h.fd, false)
	}
	if h.oldState != nil {
		_ = term.Restore(h.fd, h.oldState)
	}
}
