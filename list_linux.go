//go:build linux

package scpi

import (
	"os"
	"path/filepath"
	"strings"
)

var sysfsRoot = "/sys"

// enrichPortInfo fills in USB metadata the enumerator does not report,
// most notably the manufacturer string.
func enrichPortInfo(info *PortInfo) {
	dev, err := filepath.EvalSymlinks(filepath.Join(sysfsRoot, "class", "tty", info.Name, "device"))
	if err != nil {
		return
	}

	// The tty hangs off a USB interface; the device attributes live in the
	// first ancestor that has an idVendor file.
	for dir := dev; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err != nil {
			continue
		}

		info.IsUSB = true
		if info.VendorID == "" {
			info.VendorID = normalizeUSBID(readSysfsFile(filepath.Join(dir, "idVendor")))
		}
		if info.ProductID == "" {
			info.ProductID = normalizeUSBID(readSysfsFile(filepath.Join(dir, "idProduct")))
		}
		if info.SerialNumber == "" {
			info.SerialNumber = readSysfsFile(filepath.Join(dir, "serial"))
		}
		if info.Product == "" {
			info.Product = readSysfsFile(filepath.Join(dir, "product"))
		}
		info.Manufacturer = readSysfsFile(filepath.Join(dir, "manufacturer"))
		return
	}
}

// readSysfsFile returns the trimmed content of a sysfs attribute, or ""
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
