package scpi

import (
	"io"
	"time"
)

// Port is the serial byte stream a Session drives. Read must return 0, nil
// when the read timeout elapses without any data.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(timeout time.Duration) error
}

// Opener acquires a Port configured from cfg. OpenPort is the default.
type Opener func(cfg Config) (Port, error)

// Ensure OpenPort matches Opener at compile time
var _ Opener = OpenPort
