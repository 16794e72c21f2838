package proto

import (
	"net"

	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/stopcode"
	"github.com/gopanda/panda/internal/wire"
)

// IPv6 is the plain IPv6 header node: a fixed 40-byte header, next-header
// byte at offset 6 used as the dispatch key.
var IPv6 = &ProtoNode{
	Name:      "ipv6",
	MinLen:    40,
	NextProto: ipv6NextProto,
}

// IPv6StopFlowLabel is the Go form of parser_big.c's
// panda_parse_ipv6_stopflowlabel; internal/parsers/big.go wires the plain
// IPv6 node instead, so this variant is not part of that graph. It is
// identical to IPv6
// except that a nonzero flow label halts the walk with Okay, treating the
// packet as already dissected by whatever set that flow label (spec.md
// §4.2, §8 boundary case).
var IPv6StopFlowLabel = &ProtoNode{
	Name:      "ipv6_stopflowlabel",
	MinLen:    40,
	Len:       ipv6StopFlowLabelLen,
	NextProto: ipv6NextProto,
}

func ipv6FlowLabel(hdr []byte) uint32 {
	return wire.BE32(hdr[0:4]) & 0x000fffff
}

func ipv6StopFlowLabelLen(hdr []byte) int {
	if ipv6FlowLabel(hdr) != 0 {
		return stopcode.LenStopOkay
	}
	return 40
}

func ipv6NextProto(hdr []byte) uint32 {
	return uint32(hdr[6])
}

// ExtractIPv6 fills IPInfo from a 40-byte IPv6 header.
func ExtractIPv6(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.IP.Version = 6
	frame.IP.SrcIP = net.IP(append([]byte(nil), hdr[8:24]...))
	frame.IP.DstIP = net.IP(append([]byte(nil), hdr[24:40]...))
	frame.IP.NextHeader = hdr[6]
	frame.IP.HopLimit = hdr[7]
}
