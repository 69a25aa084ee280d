/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/go-scpi/internal/console"
	"github.com/allbin/go-scpi/internal/tui/components"
	"github.com/allbin/go-scpi/internal/tui/models"
	"github.com/spf13/cobra"
)

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect [port]",
	Short: "Open an interactive SCPI console on a serial port",
	Long: `Open the serial port and start an interactive SCPI console.

Every line typed is sent with a CR LF terminator. Lines ending in '?' are
queries: the console waits up to the read timeout for one reply line and
prints it as "RX: ...", or "RX: <no response>". Other lines are commands and
print "TX: OK". With --auto-error every command is followed by SYST:ERR? and
instrument errors are printed as "ERR: ...".

An empty line, end of input or Ctrl+C closes the port and exits.

Example usage:
  scpi connect /dev/ttyUSB0
  scpi connect /dev/ttyACM0 --baud 9600 --timeout 2.5
  scpi connect COM3 --auto-error
  scpi connect /dev/ttyUSB0 --tui`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConnect(cmd, args); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	addSessionFlags(connectCmd)
	connectCmd.Flags().Bool("tui", false, "Use the full-screen console")
}

// runConnect prints its own diagnostics; the returned error only signals
// failure.
func runConnect(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, autoError, err := sessionSettings(cmd, args)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	log, err := newLogger(errOut)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}

	s, err := openSession(cfg, log, errOut)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Connected to %s @ %d baud\n", cfg.Port(), cfg.BaudRate())

	c := console.New(s, out,
		console.WithAutoErrorCheck(autoError),
		console.WithLogger(log),
	)

	useTUI, _ := cmd.Flags().GetBool("tui")
	if useTUI {
		return runTUI(c, s.Close, components.ConnectionInfo{
			Port:      cfg.Port(),
			BaudRate:  cfg.BaudRate(),
			AutoError: autoError,
		}, out, errOut)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Run(ctx, cmd.InOrStdin()); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	return nil
}

func runTUI(c *console.Console, closeSession func(), info components.ConnectionInfo, out, errOut io.Writer) error {
	err := models.Run(c, info)
	closeSession()
	fmt.Fprintln(out, console.Disconnected)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return err
}
