/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/allbin/go-scpi"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <port>",
	Short: "Display detailed information about a serial port",
	Long: `Display what is known about one serial port, including USB metadata.

Examples:
  scpi info /dev/ttyUSB0
  scpi info COM3`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := infoCommand(cmd, args[0]); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func infoCommand(cmd *cobra.Command, path string) error {
	if err := runInfo(cmd.OutOrStdout(), path); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error getting port info: %v\n", err)
		return err
	}
	return nil
}

func runInfo(out io.Writer, path string) error {
	ports, err := listPorts()
	if err != nil {
		return err
	}

	for _, info := range ports {
		if info.Path != path && info.Name != path {
			continue
		}

		fmt.Fprintf(out, "Port Information: %s\n\n", info.Path)
		fmt.Fprintf(out, "  Name:        %s\n", info.Name)
		fmt.Fprintf(out, "  Description: %s\n", info.Description)

		if info.IsUSB {
			fmt.Fprintln(out, "\nUSB Device Information:")
			if info.VendorID != "" {
				fmt.Fprintf(out, "  Vendor ID:    %s\n", info.VendorID)
			}
			if info.ProductID != "" {
				fmt.Fprintf(out, "  Product ID:   %s\n", info.ProductID)
			}
			if info.SerialNumber != "" {
				fmt.Fprintf(out, "  Serial:       %s\n", info.SerialNumber)
			}
			if info.Manufacturer != "" {
				fmt.Fprintf(out, "  Manufacturer: %s\n", info.Manufacturer)
			}
			if info.Product != "" {
				fmt.Fprintf(out, "  Product:      %s\n", info.Product)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s", scpi.ErrDeviceNotFound, path)
}
