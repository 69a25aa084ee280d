package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/scpitest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCommand mirrors connect/query/watch flags on a fresh command so tests do not
// share flag state with the real tree.
func testCommand(t *testing.T, stdin string, flags ...string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Use: "test"}
	addSessionFlags(cmd)
	cmd.Flags().Bool("tui", false, "")
	addWatchFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(flags))

	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func withOpener(t *testing.T, opener scpi.Opener) {
	t.Helper()
	old := portOpener
	portOpener = opener
	t.Cleanup(func() { portOpener = old })
}

func TestConnectIdentityQuery(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{
		"*IDN?": "OWON,XDM1041,2309123,V3.7.2",
	}))
	withOpener(t, dev.Opener())
	cmd, out, _ := testCommand(t, "*IDN?\n\n", "--timeout", "0.05")

	require.NoError(t, runConnect(cmd, []string{"/dev/ttyUSB0"}))

	assert.Contains(t, out.String(), "Connected to /dev/ttyUSB0 @ 115200 baud")
	assert.Contains(t, out.String(), "RX: OWON,XDM1041,2309123,V3.7.2")
	assert.Contains(t, out.String(), "Disconnected.")
	assert.True(t, dev.Closed())
}

func TestConnectSettingsFromFlags(t *testing.T) {
	var got scpi.Config
	dev := scpitest.New(nil)
	withOpener(t, func(cfg scpi.Config) (scpi.Port, error) {
		got = cfg
		return dev.Opener()(cfg)
	})
	cmd, out, _ := testCommand(t, "", "--port", "COM7", "--baud", "9600", "--timeout", "0.25")

	require.NoError(t, runConnect(cmd, nil))

	assert.Equal(t, "COM7", got.Port())
	assert.Equal(t, 9600, got.BaudRate())
	assert.Equal(t, 250*time.Millisecond, got.ReadTimeout())
	assert.Contains(t, out.String(), "Connected to COM7 @ 9600 baud")
}

func TestConnectSettingsFromEnvironment(t *testing.T) {
	var got scpi.Config
	withOpener(t, func(cfg scpi.Config) (scpi.Port, error) {
		got = cfg
		return scpitest.New(nil).Opener()(cfg)
	})
	cmd, _, _ := testCommand(t, "")
	t.Setenv("SCPI_PORT", "/dev/ttyACM1")
	t.Setenv("SCPI_BAUD", "57600")
	viper.SetEnvPrefix("scpi")
	viper.AutomaticEnv()

	require.NoError(t, runConnect(cmd, nil))

	assert.Equal(t, "/dev/ttyACM1", got.Port())
	assert.Equal(t, 57600, got.BaudRate())
	assert.Equal(t, time.Second, got.ReadTimeout())
}

func TestConnectAutoError(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{"SYST:ERR?": "1, custom error"}))
	withOpener(t, dev.Opener())
	cmd, out, _ := testCommand(t, "CONF:VOLT:DC\n", "--timeout", "0.05", "--auto-error")

	require.NoError(t, runConnect(cmd, []string{"SIM0"}))

	assert.Contains(t, out.String(), "TX: OK")
	assert.Contains(t, out.String(), "ERR: 1, custom error")
}

func TestConnectOpenFailure(t *testing.T) {
	withOpener(t, scpitest.FailingOpener(scpi.ErrPermissionDenied))
	cmd, out, errOut := testCommand(t, "*IDN?\n")

	err := runConnect(cmd, []string{"/dev/ttyUSB3"})

	require.Error(t, err)
	assert.ErrorIs(t, err, scpi.ErrPermissionDenied)
	assert.Contains(t, errOut.String(), "Failed to open /dev/ttyUSB3: ")
	assert.NotContains(t, out.String(), "SCPI interactive console")
	assert.NotContains(t, out.String(), "Connected to")
}

func TestConnectMissingPort(t *testing.T) {
	withOpener(t, scpitest.New(nil).Opener())
	cmd, _, errOut := testCommand(t, "")

	require.Error(t, runConnect(cmd, nil))
	assert.Contains(t, errOut.String(), "no port given")
}

func TestConnectInvalidTimeout(t *testing.T) {
	withOpener(t, scpitest.New(nil).Opener())
	cmd, _, _ := testCommand(t, "", "--timeout", "0")

	err := runConnect(cmd, []string{"SIM0"})
	assert.ErrorIs(t, err, scpi.ErrInvalidConfig)
}

func TestQuery(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{"MEAS:VOLT:DC?": "+1.234E+00"}))
	withOpener(t, dev.Opener())
	cmd, out, _ := testCommand(t, "", "--port", "SIM0", "--timeout", "0.05")

	require.NoError(t, runQuery(cmd, "MEAS:VOLT:DC?"))

	assert.Equal(t, "RX: +1.234E+00\n", out.String())
	assert.True(t, dev.Closed())
}

func TestQueryTransportError(t *testing.T) {
	boom := errors.New("device unplugged")
	withOpener(t, func(scpi.Config) (scpi.Port, error) { return brokenPort{err: boom}, nil })
	cmd, _, errOut := testCommand(t, "", "--port", "SIM0")

	err := runQuery(cmd, "*RST")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, errOut.String(), "device unplugged")
}

func TestQueryEmptyCommand(t *testing.T) {
	cmd, _, _ := testCommand(t, "", "--port", "SIM0")
	assert.Error(t, runQuery(cmd, "  "))
}

type brokenPort struct{ err error }

func (b brokenPort) Read([]byte) (int, error)           { return 0, b.err }
func (b brokenPort) Write([]byte) (int, error)          { return 0, b.err }
func (b brokenPort) Close() error                       { return nil }
func (b brokenPort) SetReadTimeout(time.Duration) error { return nil }

func TestWatch(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{"MEAS:VOLT:DC?": "+1.234E+00"}))
	withOpener(t, dev.Opener())
	cmd, out, _ := testCommand(t, "", "--port", "SIM0", "--timeout", "0.05", "--interval", "5ms", "--count", "2")

	require.NoError(t, runWatch(cmd, "MEAS:VOLT:DC?"))

	assert.Equal(t, "RX: +1.234E+00\nRX: +1.234E+00\nDisconnected.\n", out.String())
	assert.Equal(t, []string{"MEAS:VOLT:DC?", "MEAS:VOLT:DC?"}, dev.Commands())
	assert.True(t, dev.Closed())
}

func TestWatchSettingsFromEnvironment(t *testing.T) {
	dev := scpitest.New(scpitest.Replies(map[string]string{"MEAS?": "1"}))
	withOpener(t, dev.Opener())
	t.Setenv("SCPI_PORT", "SIM0")
	t.Setenv("SCPI_COUNT", "3")
	cmd, _, _ := testCommand(t, "", "--timeout", "0.05", "-i", "1ms")
	viper.SetEnvPrefix("scpi")
	viper.AutomaticEnv()

	require.NoError(t, runWatch(cmd, "MEAS?"))
	assert.Len(t, dev.Commands(), 3)
}

func TestWatchRejectsCommand(t *testing.T) {
	opened := false
	withOpener(t, func(scpi.Config) (scpi.Port, error) {
		opened = true
		return nil, errors.New("unused")
	})
	cmd, _, errOut := testCommand(t, "", "--port", "SIM0")

	err := runWatch(cmd, "*RST")
	assert.ErrorIs(t, err, scpi.ErrInvalidConfig)
	assert.False(t, opened)
	assert.Contains(t, errOut.String(), "query ending in '?'")
}

func TestWatchInvalidInterval(t *testing.T) {
	cmd, _, _ := testCommand(t, "", "--port", "SIM0", "--interval", "0s")
	assert.ErrorIs(t, runWatch(cmd, "MEAS?"), scpi.ErrInvalidConfig)
}

func TestWatchTransportError(t *testing.T) {
	boom := errors.New("device unplugged")
	withOpener(t, func(scpi.Config) (scpi.Port, error) { return brokenPort{err: boom}, nil })
	cmd, out, errOut := testCommand(t, "", "--port", "SIM0", "--interval", "1ms")

	err := runWatch(cmd, "MEAS?")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, errOut.String(), "device unplugged")
	assert.Contains(t, out.String(), "Disconnected.")
}
