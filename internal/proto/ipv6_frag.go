package proto

import (
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/wire"
)

// IPv6Frag is the IPv6 fragment extension header node: fixed 8-byte
// header. Only the first fragment (offset 0) carries a dissectable
// transport header after it; every later fragment is treated as a leaf
// by halting with Okay once its own fields are extracted, since spec.md
// explicitly puts reassembly out of scope.
var IPv6Frag = &ProtoNode{
	Name:      "ipv6_frag",
	MinLen:    8,
	Len:       ipv6FragLen,
	NextProto: ipv6FragNextProto,
}

func ipv6FragOffset(hdr []byte) uint16 {
	return wire.BE16(hdr[2:4]) >> 3
}

func ipv6FragMore(hdr []byte) bool {
	return wire.BE16(hdr[2:4])&0x1 != 0
}

func ipv6FragLen(hdr []byte) int {
	return 8
}

func ipv6FragNextProto(hdr []byte) uint32 {
	if ipv6FragOffset(hdr) != 0 {
		// Non-first fragment: nothing in this header chain lets us find
		// the transport header, so we stop dispatching here. Returning a
		// key with no table entry and no wildcard yields
		// stopcode.UnknownProto unless the declaring ParseNode configures
		// its UnknownProtoPolicy as StopOkay for this node specifically
		// (see graph.PolicyStopOkay and parsers/big.go).
		return fragNonFirstKey
	}
	return uint32(hdr[0])
}

// fragNonFirstKey is a dispatch key guaranteed absent from any IPv6
// fragment table, used as the NextProto return for non-first fragments.
const fragNonFirstKey = 0xffffffff

// ExtractIPv6Frag fills IPv6FragInfo from an 8-byte fragment header.
func ExtractIPv6Frag(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.IPv6Frag.Identification = wire.BE32(hdr[4:8])
	frame.IPv6Frag.FragmentOffset = ipv6FragOffset(hdr)
	frame.IPv6Frag.MoreFragments = ipv6FragMore(hdr)
}
