package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/scpitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, dev *scpitest.Device) *scpi.Session {
	t.Helper()
	cfg, err := scpi.NewConfig("SIM0", scpi.WithReadTimeout(30*time.Millisecond))
	require.NoError(t, err)

	s := scpi.NewSession(cfg, scpi.WithOpener(dev.Opener()))
	require.NoError(t, s.Open())
	return s
}

func run(t *testing.T, dev *scpitest.Device, input string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	c := New(newSession(t, dev), &out, opts...)
	require.NoError(t, c.Run(context.Background(), strings.NewReader(input)))
	return out.String()
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line     string
		expected Kind
	}{
		{"", KindEmpty},
		{"   ", KindEmpty},
		{"*IDN?", KindQuery},
		{"  MEAS:VOLT:DC?  ", KindQuery},
		{"CONF:VOLT:DC", KindCommand},
		{"?", KindQuery},
		{"SYST:ERR? extra", KindCommand},
	}

	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.expected {
			t.Errorf("Classify(%q) = %v, expected %v", tt.line, got, tt.expected)
		}
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "RX: 1.0", Event{Kind: EventRX, Text: "1.0"}.String())
	assert.Equal(t, "TX: OK", Event{Kind: EventTX, Text: "OK"}.String())
	assert.Equal(t, "ERR: -113", Event{Kind: EventErr, Text: "-113"}.String())
}

func TestRunIdentityQuery(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{
		"*IDN?": "OWON,XDM1041,2309123,V3.7.2\r",
	}))

	out := run(t, dev, "*IDN?\n\n")

	assert.Contains(t, out, "SCPI interactive console")
	assert.Contains(t, out, "RX: OWON,XDM1041,2309123,V3.7.2\n")
	assert.Equal(t, []string{"*IDN?"}, dev.Commands())
}

func TestRunSilentCommand(t *testing.T) {
	dev := scpitest.New(nil)

	out := run(t, dev, "CONF:VOLT:DC\n\n")

	assert.Contains(t, out, "TX: OK")
	assert.NotContains(t, out, "RX:")
	assert.NotContains(t, out, "ERR:")
	assert.Equal(t, "CONF:VOLT:DC\r\n", dev.Written())
}

func TestRunEmptyLineExits(t *testing.T) {
	dev := scpitest.New(nil)

	out := run(t, dev, "\n*IDN?\n")

	assert.True(t, strings.HasSuffix(out, Disconnected+"\n"))
	assert.True(t, dev.Closed())
	assert.Empty(t, dev.Commands(), "nothing after the empty line may be sent")
}

func TestRunEndOfInput(t *testing.T) {
	dev := scpitest.New(nil)

	out := run(t, dev, "*RST")

	assert.Contains(t, out, "TX: OK")
	assert.Contains(t, out, Disconnected)
	assert.True(t, dev.Closed())
	assert.Equal(t, 1, dev.CloseCount())
}

func TestRunNoResponse(t *testing.T) {
	dev := scpitest.New(nil)

	out := run(t, dev, "MEAS:VOLT?\n")

	assert.Contains(t, out, "RX: <no response>")
}

func TestRunTrimsInput(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{"*OPC?": "1"}))

	out := run(t, dev, "   *OPC?  \t\n")

	assert.Contains(t, out, "RX: 1")
	assert.Equal(t, []string{"*OPC?"}, dev.Commands())
}

func TestAutoErrorCheck(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantError string
	}{
		{"no error", "0", ""},
		{"no error with text", `0,"No error"`, ""},
		{"custom error", "1, custom error", "ERR: 1, custom error"},
		{"negative code", `-113,"Undefined header"`, `ERR: -113,"Undefined header"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := scpitest.New(scpitest.Replies(map[string]string{"SYST:ERR?": tt.reply}))

			out := run(t, dev, "CONF:VOLT:DC\n", WithAutoErrorCheck(true))

			assert.Contains(t, out, "TX: OK")
			assert.Equal(t, []string{"CONF:VOLT:DC", "SYST:ERR?"}, dev.Commands())
			if tt.wantError == "" {
				assert.NotContains(t, out, "ERR:")
			} else {
				assert.Contains(t, out, tt.wantError)
			}
		})
	}
}

func TestAutoErrorCheckSilentInstrument(t *testing.T) {
	dev := scpitest.New(nil)

	out := run(t, dev, "*CLS\n", WithAutoErrorCheck(true))

	assert.Contains(t, out, "TX: OK")
	assert.NotContains(t, out, "ERR:")
	assert.Equal(t, []string{"*CLS", "SYST:ERR?"}, dev.Commands())
}

func TestAutoErrorCheckSkipsQueries(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{
		"MEAS?":     "1.5",
		"SYST:ERR?": "1, custom error",
	}))

	out := run(t, dev, "MEAS?\n", WithAutoErrorCheck(true))

	assert.Contains(t, out, "RX: 1.5")
	assert.NotContains(t, out, "ERR:")
	assert.Equal(t, []string{"MEAS?"}, dev.Commands())
}

func TestRunContextCancelled(t *testing.T) {
	dev := scpitest.New(nil)
	var out bytes.Buffer
	c := New(newSession(t, dev), &out)

	// input that never ends
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx, pr) }()

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assert.True(t, dev.Closed())
	assert.Contains(t, out.String(), Disconnected)
}

// brokenSession fails every transport call
type brokenSession struct {
	err    error
	closed int
}

func (b *brokenSession) Write(string) error                  { return b.err }
func (b *brokenSession) Query(string) (scpi.Response, error) { return scpi.Absent, b.err }
func (b *brokenSession) CheckError() (scpi.Response, error)  { return scpi.Absent, b.err }
func (b *brokenSession) Close()                              { b.closed++ }

func TestRunTransportError(t *testing.T) {
	boom := errors.New("device unplugged")
	s := &brokenSession{err: boom}
	var out bytes.Buffer

	err := New(s, &out).Run(context.Background(), strings.NewReader("*RST\n*IDN?\n"))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.closed)
	assert.NotContains(t, out.String(), "TX: OK")
	assert.Contains(t, out.String(), Disconnected)
}

func TestExecuteEmptyLine(t *testing.T) {
	s := &brokenSession{err: errors.New("unused")}

	events, err := New(s, io.Discard).Execute("  ")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRunKeepsTabs(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{"DATA?": "1.0\t2.0"}))

	out := run(t, dev, "DATA?\n")

	assert.Contains(t, out, "RX: 1.0\t2.0\n")
	assert.NotContains(t, out, "1.0    2.0")
}
