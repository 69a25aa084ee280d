/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// listPorts is replaced in tests
var listPorts = scpi.ListPorts

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List the serial ports found on the system, one per line:

  <path> - <description> (VID=xxxx, PID=xxxx) [<manufacturer>]

Parts that are unknown for a port are left out. USB vendor and product ids
are shown as four hex digits.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listCommand(cmd); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	addListFlags(listCmd)
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	cmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// listCommand runs list with the command's flags, reporting failures on its
// error stream.
func listCommand(cmd *cobra.Command) error {
	filterType, _ := cmd.Flags().GetString("filter")
	tableFormat, _ := cmd.Flags().GetBool("table")

	if err := runList(cmd.OutOrStdout(), filterType, tableFormat); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error listing ports: %v\n", err)
		return err
	}
	return nil
}

func runList(out io.Writer, filterType string, tableFormat bool) error {
	switch strings.ToLower(filterType) {
	case "", "all", "usb", "standard", "arm":
	default:
		return fmt.Errorf("unknown filter %q: use usb, standard, arm or all", filterType)
	}

	ports, err := listPorts()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Fprintln(out, "No serial ports found.")
		return nil
	}

	filtered := filterPorts(ports, filterType)
	if len(filtered) == 0 {
		fmt.Fprintf(out, "No serial ports found matching filter: %s\n", filterType)
		return nil
	}

	if tableFormat {
		renderTable(out, filtered)
	} else {
		renderSimple(out, filtered)
	}
	return nil
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []scpi.PortInfo, filterType string) []scpi.PortInfo {
	filterType = strings.ToLower(filterType)
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []scpi.PortInfo
	for _, port := range ports {
		name := strings.ToLower(port.Name)
		switch filterType {
		case "usb":
			if port.IsUSB || strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, port)
			}
		case "standard":
			if strings.HasPrefix(name, "ttys") || strings.HasPrefix(name, "com") {
				filtered = append(filtered, port)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, port)
			}
		}
	}
	return filtered
}

// renderSimple renders the port list in simple text format
func renderSimple(out io.Writer, ports []scpi.PortInfo) {
	for _, port := range ports {
		fmt.Fprintln(out, port.String())
	}
}

const (
	columnKeyPort         = "port"
	columnKeyDescription  = "description"
	columnKeyUSBID        = "usbid"
	columnKeyManufacturer = "manufacturer"
)

// renderTable renders the port list in a styled static table format
func renderTable(out io.Writer, ports []scpi.PortInfo) {
	r := lipgloss.NewRenderer(out)
	headerStyle := r.NewStyle().Bold(true).Foreground(colors.Mauve)

	fmt.Fprintf(out, "Found %d serial port(s):\n\n", len(ports))

	rows := make([]table.Row, 0, len(ports))
	for _, port := range ports {
		usbID := ""
		if port.HasUSBID() {
			usbID = port.VendorID + ":" + port.ProductID
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnKeyPort:         port.Path,
			columnKeyDescription:  port.Description,
			columnKeyUSBID:        usbID,
			columnKeyManufacturer: port.Manufacturer,
		}))
	}

	t := table.New([]table.Column{
		table.NewColumn(columnKeyPort, "Port", columnWidth(ports, 4, func(p scpi.PortInfo) string { return p.Path })),
		table.NewColumn(columnKeyDescription, "Description", columnWidth(ports, 11, func(p scpi.PortInfo) string { return p.Description })),
		table.NewColumn(columnKeyUSBID, "VID:PID", 11),
		table.NewColumn(columnKeyManufacturer, "Manufacturer", columnWidth(ports, 12, func(p scpi.PortInfo) string { return p.Manufacturer })),
	}).
		WithRows(rows).
		HeaderStyle(headerStyle).
		WithBaseStyle(r.NewStyle().Align(lipgloss.Left)).
		BorderRounded()

	fmt.Fprintln(out, t.View())
}

// columnWidth fits the widest value, capped to keep the table on screen
func columnWidth(ports []scpi.PortInfo, minWidth int, value func(scpi.PortInfo) string) int {
	width := minWidth
	for _, p := range ports {
		width = max(width, lipgloss.Width(value(p)))
	}
	return min(width+2, 40)
}
