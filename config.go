package scpi

import (
	"fmt"
	"time"
)

const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = time.Second
	DefaultTerminator  = "\r\n"
)

// Config is the immutable session configuration. Build it with NewConfig;
// framing is always 8 data bits, no parity, 1 stop bit.
type Config struct {
	port        string
	baudRate    int
	readTimeout time.Duration
	terminator  string
}

// Option is a functional option for configuring a session
type Option func(*Config) error

// NewConfig returns a configuration for port with defaults applied
// (115200 baud, 1s read timeout, CR LF terminator) and then opts.
func NewConfig(port string, opts ...Option) (Config, error) {
	if port == "" {
		return Config{}, fmt.Errorf("%w: missing port name", ErrInvalidConfig)
	}

	c := Config{
		port:        port,
		baudRate:    DefaultBaudRate,
		readTimeout: DefaultReadTimeout,
		terminator:  DefaultTerminator,
	}
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return Config{}, err
		}
	}
	return c, nil
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if rate <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBaudRate, rate)
		}
		c.baudRate = rate
		return nil
	}
}

// WithReadTimeout sets how long ReadLine waits for a complete line
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: read timeout must be positive, got %v", ErrInvalidConfig, timeout)
		}
		c.readTimeout = timeout
		return nil
	}
}

// WithTerminator sets the line terminator appended to every command.
// It must be non-empty ASCII.
func WithTerminator(eol string) Option {
	return func(c *Config) error {
		if eol == "" {
			return fmt.Errorf("%w: empty line terminator", ErrInvalidConfig)
		}
		if !isASCII(eol) {
			return fmt.Errorf("%w: line terminator %q is not ASCII", ErrInvalidConfig, eol)
		}
		c.terminator = eol
		return nil
	}
}

// Port is the device path, e.g. /dev/ttyUSB0 or COM3
func (c Config) Port() string { return c.port }

// BaudRate is the line speed in bits per second
func (c Config) BaudRate() int { return c.baudRate }

// ReadTimeout bounds the wait for one reply line
func (c Config) ReadTimeout() time.Duration { return c.readTimeout }

// Terminator is appended to every command sent
func (c Config) Terminator() string { return c.terminator }

// String summarises the settings for logs
func (c Config) String() string {
	return fmt.Sprintf("%s %d 8N1 timeout=%v eol=%q", c.port, c.baudRate, c.readTimeout, c.terminator)
}
