package proto

import (
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/wire"
)

// ARP and RARP (RFC 826) are fixed-length leaf nodes for the common
// Ethernet/IPv4 case: hardware type 1, protocol type 0x0800, hardware
// length 6, protocol length 4.
var (
	ARP = &ProtoNode{
		Name:   "arp",
		MinLen: 28,
	}

	RARP = &ProtoNode{
		Name:   "rarp",
		MinLen: 28,
	}
)

// ExtractARP fills ARPInfo from a 28-byte Ethernet/IPv4 ARP packet.
func ExtractARP(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.ARP.Operation = wire.BE16(hdr[6:8])
	frame.ARP.SenderHW = append([]byte(nil), hdr[8:14]...)
	frame.ARP.SenderIP = append([]byte(nil), hdr[14:18]...)
	frame.ARP.TargetHW = append([]byte(nil), hdr[18:24]...)
	frame.ARP.TargetIP = append([]byte(nil), hdr[24:28]...)
}
