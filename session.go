package scpi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrorQuery is the SCPI command that pops the instrument's error queue.
const ErrorQuery = "SYST:ERR?"

const readChunkSize = 256

// Session is a line-oriented request/response channel to one instrument.
// It owns its Port exclusively and is not safe for concurrent use.
type Session struct {
	cfg     Config
	open    Opener
	log     zerolog.Logger
	port    Port
	pending []byte
}

// SessionOption customises a Session
type SessionOption func(*Session)

// WithOpener replaces OpenPort, e.g. with a simulated instrument
func WithOpener(open Opener) SessionOption {
	return func(s *Session) {
		if open != nil {
			s.open = open
		}
	}
}

// WithLogger sets the logger used for open/close and traffic tracing
func WithLogger(log zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.log = log
	}
}

// NewSession returns a closed session for cfg.
func NewSession(cfg Config, opts ...SessionOption) *Session {
	s := &Session{
		cfg:  cfg,
		open: OpenPort,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("port", cfg.Port()).Logger()
	return s
}

// Config returns the session configuration
func (s *Session) Config() Config {
	return s.cfg
}

// IsOpen reports whether the port is held
func (s *Session) IsOpen() bool {
	return s.port != nil
}

// Open acquires the serial port. Failures are returned as *ConnectionError
// and are not retried.
func (s *Session) Open() error {
	if s.port != nil {
		return ErrAlreadyOpen
	}

	p, err := s.open(s.cfg)
	if err != nil {
		s.log.Debug().Err(err).Msg("open failed")
		return &ConnectionError{Port: s.cfg.Port(), Err: err}
	}

	s.port = p
	s.pending = s.pending[:0]
	s.log.Debug().
		Int("baud", s.cfg.BaudRate()).
		Dur("timeout", s.cfg.ReadTimeout()).
		Msg("port opened")
	return nil
}

// Close releases the port. It is safe to call on a closed or never opened
// session and never fails.
func (s *Session) Close() {
	if s.port == nil {
		return
	}

	if err := s.port.Close(); err != nil && !errors.Is(err, ErrPortClosed) {
		s.log.Debug().Err(err).Msg("close")
	}
	s.port = nil
	s.pending = nil
	s.log.Debug().Msg("port closed")
}

// Write sends command followed by the terminator. Runes outside ASCII are
// dropped. Nothing is awaited from the instrument.
func (s *Session) Write(command string) error {
	if s.port == nil {
		return ErrPortClosed
	}

	payload := encodeASCII(command + s.cfg.Terminator())
	s.log.Trace().Str("data", fmt.Sprintf("%q", payload)).Msg("tx")

	for written := 0; written < len(payload); {
		n, err := s.port.Write(payload[written:])
		if err != nil {
			return fmt.Errorf("write %s: %w", s.cfg.Port(), err)
		}
		if n == 0 {
			return fmt.Errorf("write %s: %w", s.cfg.Port(), io.ErrShortWrite)
		}
		written += n
	}
	return nil
}

// ReadLine waits up to the read timeout for one newline terminated line and
// returns it with surrounding whitespace removed. It returns Absent if no
// complete line arrives in time; a fragment without terminator is dropped.
func (s *Session) ReadLine() (Response, error) {
	if s.port == nil {
		return Absent, ErrPortClosed
	}

	deadline := time.Now().Add(s.cfg.ReadTimeout())
	buf := make([]byte, readChunkSize)

	for {
		if line, ok := s.takeLine(); ok {
			text := strings.TrimSpace(decodeASCII(line))
			s.log.Trace().Str("data", fmt.Sprintf("%q", line)).Msg("rx")
			return Line(text), nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if len(s.pending) > 0 {
				s.log.Debug().Str("data", fmt.Sprintf("%q", s.pending)).Msg("incomplete line dropped")
				s.pending = s.pending[:0]
			}
			s.log.Debug().Msg("read timeout")
			return Absent, nil
		}

		if err := s.port.SetReadTimeout(remaining); err != nil {
			return Absent, fmt.Errorf("set read timeout on %s: %w", s.cfg.Port(), err)
		}
		n, err := s.port.Read(buf)
		if err != nil {
			return Absent, fmt.Errorf("read %s: %w", s.cfg.Port(), err)
		}
		s.pending = append(s.pending, buf[:n]...)
	}
}

// takeLine removes the first complete line, terminator included, from the
// pending input.
func (s *Session) takeLine() ([]byte, bool) {
	i := bytes.IndexByte(s.pending, '\n')
	if i < 0 {
		return nil, false
	}
	line := make([]byte, i+1)
	copy(line, s.pending[:i+1])
	s.pending = append(s.pending[:0], s.pending[i+1:]...)
	return line, true
}

// Query writes command and reads exactly one response line.
func (s *Session) Query(command string) (Response, error) {
	if err := s.Write(command); err != nil {
		return Absent, err
	}
	return s.ReadLine()
}

// CheckError queries SYST:ERR?.
func (s *Session) CheckError() (Response, error) {
	return s.Query(ErrorQuery)
}
