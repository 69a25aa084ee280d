/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/allbin/go-scpi/internal/console"
	"github.com/spf13/cobra"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <command>",
	Short: "Send a single SCPI line and print the outcome",
	Long: `Open the port, send one line the same way the interactive console
does, print the result and close the port again.

Example usage:
  scpi query '*IDN?' --port /dev/ttyUSB0
  scpi query 'CONF:VOLT:DC 10' --port /dev/ttyUSB0 --auto-error
  SCPI_PORT=/dev/ttyACM0 scpi query 'MEAS:VOLT:DC?'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runQuery(cmd, args[0]); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	addSessionFlags(queryCmd)
}

func runQuery(cmd *cobra.Command, line string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if strings.TrimSpace(line) == "" {
		err := fmt.Errorf("empty command")
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}

	cfg, autoError, err := sessionSettings(cmd, nil)
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
	defer s.Close()

	c := console.New(s, out,
		console.WithAutoErrorCheck(autoError),
		console.WithLogger(log),
	)
	events, err := c.Execute(line)
	c.Print(events)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	return nil
}
