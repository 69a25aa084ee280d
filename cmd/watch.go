/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/go-scpi/internal/console"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <query>",
	Short: "Repeat one SCPI query and print every reply",
	Long: `Open the port and send the same query on a fixed interval, printing
each reply as it arrives, until interrupted or --count replies were shown.

Example usage:
  scpi watch 'MEAS:VOLT:DC?' --port /dev/ttyUSB0
  scpi watch 'MEAS?' --port /dev/ttyUSB0 --interval 250ms --count 20`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWatch(cmd, args[0]); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addSessionFlags(watchCmd)
	addWatchFlags(watchCmd)
}

func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("interval", "i", 500*time.Millisecond, "Time between queries")
	cmd.Flags().IntP("count", "n", 0, "Stop after this many replies, 0 for no limit")
}

// runWatch polls until interrupted, the count is reached or the transport
// fails. The port is closed on every path.
func runWatch(cmd *cobra.Command, query string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, _, err := sessionSettings(cmd, nil)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	interval, count := viper.GetDuration("interval"), viper.GetInt("count")
	if err := console.ValidateWatch(query, interval, count); err != nil {
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
	defer func() {
		s.Close()
		fmt.Fprintln(out, console.Disconnected)
	}()

	log.Debug().Str("query", query).Dur("interval", interval).Int("count", count).Msg("watching")

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := console.New(s, out, console.WithLogger(log))
	if err := c.Watch(ctx, query, interval, count); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}
	return nil
}
