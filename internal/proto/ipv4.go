package proto

import (
	"net"

	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/stopcode"
)

// IPv4 is the IPv4 header node. Its length is IHL*4, read after asserting
// the version field is actually 4 (the caller got here via IPOverlay's
// version-nibble dispatch, but the assertion catches a corrupted/forged
// header rather than trusting the prior dispatch blindly).
var IPv4 = &ProtoNode{
	Name:      "ipv4",
	MinLen:    20,
	Len:       ipv4Len,
	NextProto: ipv4NextProto,
}

func ipv4Len(hdr []byte) int {
	version := hdr[0] >> 4
	if version != 4 {
		return stopcode.LenStopFail
	}
	// A too-small IHL is deliberately NOT rejected here: returning it
	// as-is lets the engine's generic "hlen < min_len" check in step 1
	// produce stopcode.Length, matching spec.md §8 scenario 5 (IHL=4 ⇒
	// LENGTH, not a protocol-specific FAIL).
	return int(hdr[0]&0x0f) * 4
}

func ipv4NextProto(hdr []byte) uint32 {
	return uint32(hdr[9])
}

// ExtractIPv4 fills IPInfo from an IPv4 header (hdr is at least 20 bytes).
func ExtractIPv4(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.IP.Version = 4
	frame.IP.SrcIP = net.IP(append([]byte(nil), hdr[12:16]...))
	frame.IP.DstIP = net.IP(append([]byte(nil), hdr[16:20]...))
	frame.IP.NextHeader = hdr[9]
	frame.IP.HopLimit = hdr[8]
}
