//go:build !linux

package scpi

// enrichPortInfo is a no-op where the enumerator already reports all it can
func enrichPortInfo(info *PortInfo) {}
