package proto

import (
	"net"

	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/wire"
)

// EtherType values used for dispatch throughout the protocol library.
const (
	EtherTypeIPv4   = 0x0800
	EtherTypeIPv6   = 0x86dd
	EtherType8021AD = 0x88a8
	EtherType8021Q  = 0x8100
	EtherTypeMPLSUC = 0x8847
	EtherTypeMPLSMC = 0x8848
	EtherTypeARP    = 0x0806
	EtherTypeRARP   = 0x8035
	EtherTypeTIPC   = 0x88ca
	EtherTypeBatman = 0x4305
	EtherTypeFCoE   = 0x8906
	EtherTypeTEB    = 0x6558 // transparent Ethernet bridging, used by GRE
)

// Ether is the Ethernet II protocol node: a fixed 14-byte header whose
// trailing 2 bytes are the EtherType dispatch key.
var Ether = &ProtoNode{
	Name:      "ether",
	MinLen:    14,
	NextProto: etherNextProto,
}

func etherNextProto(hdr []byte) uint32 {
	return uint32(wire.BE16(hdr[12:14]))
}

// ExtractEther fills EtherInfo from a 14-byte Ethernet header.
func ExtractEther(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.Ether.DstMAC = net.HardwareAddr(append([]byte(nil), hdr[0:6]...))
	frame.Ether.SrcMAC = net.HardwareAddr(append([]byte(nil), hdr[6:12]...))
	frame.Ether.EtherType = wire.BE16(hdr[12:14])
}
