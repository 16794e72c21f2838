//go:build linux

package main

import (
	"encoding/binary"
	"fmt"
	"syscall"
)

func htons(v uint16) uint16 {
	b := [2]byte{}
	binary.BigEndian.PutUint16(b[:], v)
	return binary.LittleEndian.Uint16(b[:])
}

// Capture opens an AF_PACKET raw socket on iface and calls onPacket for
// every frame received, until a receive error other than a timeout or an
// interruption occurs. Adapted from
// Spellinfo-sstop/internal/platform/linux_pcap.go's newPacketCounter/
// captureLoop: the socket is SOCK_RAW rather than SOCK_DGRAM, so the
// Ethernet header stays intact for internal/parsers.BigEtherRoot; it keeps
// the same 200ms receive timeout (EAGAIN and EINTR are retried) and the
// same 4MB receive buffer for high packet rates.
func Capture(iface string, onPacket func([]byte)) error {
	fd, err := syscall.Socket(syscall.AF_PACKET, syscall.SOCK_RAW, int(htons(syscall.ETH_P_ALL)))
	if err != nil {
		return fmt.Errorf("pandacap: AF_PACKET socket (need root/CAP_NET_RAW): %w", err)
	}
	defer syscall.Close(fd)

	ifi, err := netInterfaceByName(iface)
	if err != nil {
		return fmt.Errorf("pandacap: interface %q: %w", iface, err)
	}

	addr := syscall.SockaddrLinklayer{Protocol: htons(syscall.ETH_P_ALL), Ifindex: ifi}
	if err := syscall.Bind(fd, &addr); err != nil {
		return fmt.Errorf("pandacap: bind to %q: %w", iface, err)
	}

	syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_RCVBUF, 4*1024*1024)
	tv := syscall.Timeval{Sec: 0, Usec: 200_000}
	syscall.SetsockoptTimeval(fd, syscall.SOL_SOCKET, syscall.SO_RCVTIMEO, &tv)

	buf := make([]byte, 65536)
	for {
		n, _, err := syscall.Recvfrom(fd, buf, 0)
		if err != nil {
			if err == syscall.EAGAIN || err == syscall.EINTR {
				continue // timeout (EAGAIN) or interrupted; retry
			}
			return fmt.Errorf("pandacap: recvfrom on %q: %w", iface, err)
		}
		if n < 1 {
			continue
		}
		pkt := make([]byte, n)
		copy(pkt, buf[:n])
		onPacket(pkt)
	}
}
