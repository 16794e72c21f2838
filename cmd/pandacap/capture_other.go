//go:build !linux

package main

import "fmt"

// Capture has no implementation outside Linux: AF_PACKET raw sockets are a
// Linux-specific capture mechanism, matching
// Spellinfo-sstop/internal/platform/linux_pcap.go's own //go:build linux
// restriction (its packetCounter is Linux-only too).
func Capture(iface string, onPacket func([]byte)) error {
	return fmt.Errorf("pandacap: packet capture is Linux-only (got GOOS build without AF_PACKET support)")
}
