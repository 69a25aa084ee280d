package scpi

import (
	"errors"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig("/dev/ttyUSB0")
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	if cfg.Port() != "/dev/ttyUSB0" {
		t.Errorf("Expected Port /dev/ttyUSB0, got %s", cfg.Port())
	}
	if cfg.BaudRate() != 115200 {
		t.Errorf("Expected BaudRate 115200, got %d", cfg.BaudRate())
	}
	if cfg.ReadTimeout() != time.Second {
		t.Errorf("Expected ReadTimeout 1s, got %v", cfg.ReadTimeout())
	}
	if cfg.Terminator() != "\r\n" {
		t.Errorf("Expected Terminator CR LF, got %q", cfg.Terminator())
	}
}

func TestNewConfigMissingPort(t *testing.T) {
	_, err := NewConfig("")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestWithBaudRate(t *testing.T) {
	tests := []struct {
		name    string
		rate    int
		wantErr bool
	}{
		{"9600", 9600, false},
		{"115200", 115200, false},
		{"921600", 921600, false},
		{"zero", 0, true},
		{"negative", -9600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig("COM3", WithBaudRate(tt.rate))
			if (err != nil) != tt.wantErr {
				t.Fatalf("WithBaudRate(%d) error = %v, wantErr %v", tt.rate, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBaudRate) {
					t.Errorf("Expected ErrInvalidBaudRate, got %v", err)
				}
				return
			}
			if cfg.BaudRate() != tt.rate {
				t.Errorf("BaudRate = %d, want %d", cfg.BaudRate(), tt.rate)
			}
		})
	}
}

func TestWithReadTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"1ms", time.Millisecond, false},
		{"150ms", 150 * time.Millisecond, false},
		{"2.5s", 2500 * time.Millisecond, false},
		{"zero", 0, true},
		{"negative", -100 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig("COM3", WithReadTimeout(tt.timeout))
			if (err != nil) != tt.wantErr {
				t.Fatalf("WithReadTimeout(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
			if err == nil && cfg.ReadTimeout() != tt.timeout {
				t.Errorf("ReadTimeout = %v, want %v", cfg.ReadTimeout(), tt.timeout)
			}
		})
	}
}

func TestWithTerminator(t *testing.T) {
	tests := []struct {
		name    string
		eol     string
		wantErr bool
	}{
		{"LF", "\n", false},
		{"CR", "\r", false},
		{"CR LF", "\r\n", false},
		{"empty", "", true},
		{"non-ASCII", "\u00a7", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig("COM3", WithTerminator(tt.eol))
			if (err != nil) != tt.wantErr {
				t.Fatalf("WithTerminator(%q) error = %v, wantErr %v", tt.eol, err, tt.wantErr)
			}
			if err == nil && cfg.Terminator() != tt.eol {
				t.Errorf("Terminator = %q, want %q", cfg.Terminator(), tt.eol)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg, err := NewConfig("/dev/ttyACM0", WithBaudRate(9600), WithReadTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	expected := `/dev/ttyACM0 9600 8N1 timeout=500ms eol="\r\n"`
	if got := cfg.String(); got != expected {
		t.Errorf("String() = %q, want %q", got, expected)
	}
}
