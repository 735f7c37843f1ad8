// Package term provides non-blocking keyboard polling for the input loop.
// Raw-mode handling stays at the OS boundary; the session only sees single
// key bytes.
package term

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// KeyReader yields one key byte per Poll, or times out.
type KeyReader interface {
	Poll(timeout time.Duration) (byte, bool)
	Close() error
}

// Keys reads from an input stream on a pump goroutine and hands bytes to
// Poll through a channel, so the input loop never blocks past its timeout.
type Keys struct {
	ch        chan byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewStdinKeys polls the process's stdin.
func NewStdinKeys() *Keys {
	return NewKeys(os.Stdin)
}

func NewKeys(r io.Reader) *Keys {
	k := &Keys{
		ch:   make(chan byte, 8),
		done: make(chan struct{}),
	}
	go k.pump(r)
	return k
}

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (k *Keys) pump(r io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case k.ch <- buf[0]:
			case <-k.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (k *Keys) Poll(timeout time.Duration) (byte, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case b := <-k.ch:
		return b, true
	case <-k.done:
		return 0, false
	case <-timer.C:
		return 0, false
	}
}

func (k *Keys) Close() error {
	k.closeOnce.Do(func() {
		close(k.done)
	})
	return nil
}
