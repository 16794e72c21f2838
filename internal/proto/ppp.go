package proto

import "github.com/gopanda/panda/internal/wire"

// PPP protocol field values (RFC 1661) relevant to the GRE v1/PPTP path.
const (
	PPPIP   = 0x0021
	PPPIPv6 = 0x0057
)

// PPP is a small fixed 2-byte-protocol-field header node, reached only
// from GRE v1 (PPTP) in the reference graph.
var PPP = &ProtoNode{
	Name:      "ppp",
	MinLen:    2,
	NextProto: pppNextProto,
}

func pppNextProto(hdr []byte) uint32 {
	return uint32(wire.BE16(hdr[0:2]))
}
