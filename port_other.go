//go:build !linux

package scpi

import (
	"errors"
	"fmt"

	"go.bug.st/serial"
)

// bugstPort adapts go.bug.st/serial, whose Read already returns 0, nil on
// timeout.
type bugstPort struct {
	serial.Port
}

var _ Port = (*bugstPort)(nil)

// OpenPort opens cfg.Port() as an 8N1 line at cfg.BaudRate(). Reads wait at
// most cfg.ReadTimeout().
func OpenPort(cfg Config) (Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate(),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(cfg.Port(), mode)
	if err != nil {
		return nil, openError(err)
	}

	if err := p.SetReadTimeout(cfg.ReadTimeout()); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &bugstPort{Port: p}, nil
}

// openError maps go.bug.st/serial error codes onto the package errors
func openError(err error) error {
	var portErr *serial.PortError
	if !errors.As(err, &portErr) {
		return err
	}

	switch portErr.Code() {
	case serial.PortNotFound, serial.InvalidSerialPort:
		return fmt.Errorf("%w: %v", ErrDeviceNotFound, err)
	case serial.PermissionDenied:
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case serial.PortBusy:
		return fmt.Errorf("%w: %v", ErrDeviceInUse, err)
	case serial.InvalidSpeed:
		return fmt.Errorf("%w: %v", ErrInvalidBaudRate, err)
	default:
		return err
	}
}
