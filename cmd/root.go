/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scpi",
	Short: "Talk to SCPI instruments over a serial port",
	Long: `scpi is an interactive console for bench instruments that speak SCPI
over a serial line (USB CDC/ACM, USB serial adapters or plain UARTs).

Lines ending in '?' are sent as queries and the reply is printed; anything
else is sent as a command. Settings can come from flags, SCPI_* environment
variables or a config file ($HOME/.scpi.yaml):

  port: /dev/ttyUSB0
  baud: 115200
  timeout: 1.0
  auto-error: true`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scpi.yaml)")
	rootCmd.PersistentFlags().String("log-level", logging.DefaultLevel, "Log level: trace, debug, info, warn, error")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".scpi")
	}

	viper.SetEnvPrefix("scpi")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		os.Exit(1)
	}
}

// addSessionFlags registers the serial settings shared by connect, query and watch
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("port", "p", "", "Serial port, e.g. /dev/ttyUSB0 or COM3")
	cmd.Flags().IntP("baud", "b", scpi.DefaultBaudRate, "Baud rate")
	cmd.Flags().Float64P("timeout", "t", scpi.DefaultReadTimeout.Seconds(), "Read timeout in seconds")
	cmd.Flags().BoolP("auto-error", "e", false, "Query SYST:ERR? after every command")
}

// bindFlags binds the flags of the running command only; the session
// commands share keys, so binding them all in init would let one shadow the other.
func bindFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(f.Name, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	return bindErr
}

// sessionSettings resolves the session config from flags, environment and
// config file. A positional port argument wins over all of them.
func sessionSettings(cmd *cobra.Command, args []string) (scpi.Config, bool, error) {
	if err := bindFlags(cmd); err != nil {
		return scpi.Config{}, false, err
	}

	port := viper.GetString("port")
	if len(args) > 0 {
		port = args[0]
	}
	if port == "" {
		return scpi.Config{}, false, fmt.Errorf("no port given: pass one as argument, with --port or SCPI_PORT")
	}

	timeout := viper.GetFloat64("timeout")
	if timeout <= 0 {
		return scpi.Config{}, false, fmt.Errorf("%w: timeout must be positive, got %v", scpi.ErrInvalidConfig, timeout)
	}

	cfg, err := scpi.NewConfig(port,
		scpi.WithBaudRate(viper.GetInt("baud")),
		scpi.WithReadTimeout(time.Duration(timeout*float64(time.Second))),
	)
	if err != nil {
		return scpi.Config{}, false, err
	}
	return cfg, viper.GetBool("auto-error"), nil
}

// newLogger builds the diagnostics logger from --log-level
func newLogger(w io.Writer) (zerolog.Logger, error) {
	return logging.New(w, viper.GetString("log-level"))
}
