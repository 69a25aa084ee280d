package scpi

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes one serial port found on the system
type PortInfo struct {
	Name         string
	Path         string
	Description  string
	IsUSB        bool
	VendorID     string // 4 lowercase hex digits, empty when unknown
	ProductID    string // 4 lowercase hex digits, empty when unknown
	SerialNumber string
	Manufacturer string
	Product      string
}

// allow tests to replace the platform enumerator
var getDetailedPortsList = enumerator.GetDetailedPortsList

// ListPorts returns the serial ports available on the system, sorted by path
func ListPorts() ([]PortInfo, error) {
	details, err := getDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerating serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		info := PortInfo{
			Name:         filepath.Base(d.Name),
			Path:         d.Name,
			IsUSB:        d.IsUSB,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		}
		if d.IsUSB {
			info.VendorID = normalizeUSBID(d.VID)
			info.ProductID = normalizeUSBID(d.PID)
		}

		enrichPortInfo(&info)

		info.Description = info.Product
		if info.Description == "" {
			info.Description = getPortDescription(info.Name)
		}
		ports = append(ports, info)
	}

	sort.Slice(ports, func(i, j int) bool { return ports[i].Path < ports[j].Path })
	return ports, nil
}

// HasUSBID reports whether both vendor and product id are known
func (p PortInfo) HasUSBID() bool {
	return p.VendorID != "" && p.ProductID != ""
}

// String renders "path - description (VID=xxxx, PID=xxxx) [manufacturer]",
// leaving out the parts that are unknown.
func (p PortInfo) String() string {
	var b strings.Builder
	b.WriteString(p.Path)
	if p.Description != "" {
		b.WriteString(" - ")
		b.WriteString(p.Description)
	}
	if p.HasUSBID() {
		fmt.Fprintf(&b, " (VID=%s, PID=%s)", p.VendorID, p.ProductID)
	}
	if p.Manufacturer != "" {
		fmt.Fprintf(&b, " [%s]", p.Manufacturer)
	}
	return b.String()
}

// normalizeUSBID turns "1A86" or "0x1a86" into "1a86"
func normalizeUSBID(id string) string {
	id = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(id)), "0x")
	if id == "" {
		return ""
	}
	v, err := strconv.ParseUint(id, 16, 16)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%04x", v)
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	case strings.HasPrefix(name, "COM"):
		return "Communications Port"
	case strings.HasPrefix(name, "cu."), strings.HasPrefix(name, "tty."):
		return "Serial Port"
	default:
		return ""
	}
}
