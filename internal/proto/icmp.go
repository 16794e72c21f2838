package proto

import "github.com/gopanda/panda/internal/metadata"

// ICMP and ICMPv6 are fixed 4-byte-header leaf nodes (type, code,
// checksum); payload interpretation beyond that is out of scope.
var (
	ICMP = &ProtoNode{
		Name:   "icmp",
		MinLen: 4,
	}

	ICMPv6 = &ProtoNode{
		Name:   "icmpv6",
		MinLen: 4,
	}
)

// ExtractICMP fills ICMPInfo from the common type/code prefix shared by
// ICMPv4 and ICMPv6.
func ExtractICMP(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.ICMP.Type = hdr[0]
	frame.ICMP.Code = hdr[1]
}
