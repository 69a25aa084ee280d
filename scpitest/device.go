// Package scpitest provides a simulated SCPI instrument implementing
// scpi.Port, for exercising sessions and consoles without hardware.
package scpitest

import (
	"strings"
	"sync"
	"time"

	"github.com/allbin/go-scpi"
)

// Handler answers one command. Returning false means the instrument stays
// silent.
type Handler func(command string) (reply string, ok bool)

// Replies answers commands found in table and ignores everything else
func Replies(table map[string]string) Handler {
	return func(command string) (string, bool) {
		reply, ok := table[command]
		return reply, ok
	}
}

// Device is an in-memory instrument. Every complete line the host writes
// is passed to the handler; replies are queued with a trailing "\n".
type Device struct {
	mu         sync.Mutex
	handler    Handler
	timeout    time.Duration
	rx         []byte
	tx         []byte
	written    []byte
	commands   []string
	closed     bool
	closeCount int
}

var _ scpi.Port = (*Device)(nil)

// New returns an open device. A nil handler never replies.
func New(handler Handler) *Device {
	if handler == nil {
		handler = func(string) (string, bool) { return "", false }
	}
	return &Device{
		handler: handler,
		timeout: scpi.DefaultReadTimeout,
	}
}

// Opener hands out d to sessions, reopening it if it was closed
func (d *Device) Opener() scpi.Opener {
	return func(cfg scpi.Config) (scpi.Port, error) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.closed = false
		d.timeout = cfg.ReadTimeout()
		return d, nil
	}
}

// FailingOpener returns an opener that always fails with err
func FailingOpener(err error) scpi.Opener {
	return func(scpi.Config) (scpi.Port, error) {
		return nil, err
	}
}

func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, scpi.ErrPortClosed
	}

	d.written = append(d.written, p...)
	d.rx = append(d.rx, p...)

	for {
		i := strings.IndexByte(string(d.rx), '\n')
		if i < 0 {
			break
		}
		command := strings.TrimRight(string(d.rx[:i]), "\r")
		d.rx = d.rx[i+1:]

		d.commands = append(d.commands, command)
		if reply, ok := d.handler(command); ok {
			d.tx = append(d.tx, reply+"\n"...)
		}
	}
	return len(p), nil
}

// Read returns queued reply bytes, or 0, nil once the read timeout passes
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	deadline := time.Now().Add(d.timeout)
	d.mu.Unlock()

	for {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return 0, scpi.ErrPortClosed
		}
		if len(d.tx) > 0 {
			n := copy(p, d.tx)
			d.tx = d.tx[n:]
			d.mu.Unlock()
			return n, nil
		}
		d.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, nil
		}
		time.Sleep(min(remaining, time.Millisecond))
	}
}

func (d *Device) SetReadTimeout(timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timeout = timeout
	return nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closeCount++
	if d.closed {
		return scpi.ErrPortClosed
	}
	d.closed = true
	return nil
}

// Inject queues raw bytes for the host to read, e.g. unsolicited output or
// a line without terminator.
func (d *Device) Inject(data string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tx = append(d.tx, data...)
}

// Written returns every byte the host has written
func (d *Device) Written() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.written)
}

// Commands returns the complete lines received, terminators stripped
func (d *Device) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// CloseCount counts calls to Close, including redundant ones
func (d *Device) CloseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeCount
}
