package proto

import (
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/stopcode"
	"github.com/gopanda/panda/internal/wire"
)

// GRE flag bits (big-endian on wire), reproduced from
// original_source/src/include/panda/proto_nodes/proto_gre.h.
const (
	greFlagCsum    uint16 = 0x8000
	greFlagRouting uint16 = 0x4000
	greFlagKey     uint16 = 0x2000
	greFlagSeq     uint16 = 0x1000
	greFlagAck     uint16 = 0x0080
	greFlagVersion uint16 = 0x0007

	// GREProtoPPP is the GRE payload protocol value that, combined with
	// the KEY flag, identifies a PPTP (GRE v1) header (RFC 2637).
	GREProtoPPP uint16 = 0x880b
)

// greV0FlagFields and grePPTPFlagFields reproduce proto_gre.h's
// gre_flag_fields and pptp_gre_flag_fields tables verbatim: each flag
// present contributes a 4-byte field, summed in wire order.
var greV0FlagFields = wire.FlagFieldSpec{
	{Flag: greFlagCsum, Size: 4},
	{Flag: greFlagKey, Size: 4},
	{Flag: greFlagSeq, Size: 4},
}

var grePPTPFlagFields = wire.FlagFieldSpec{
	{Flag: greFlagCsum, Size: 4},
	{Flag: greFlagKey, Size: 4},
	{Flag: greFlagSeq, Size: 4},
	{Flag: greFlagAck, Size: 4},
}

// GREBase is an overlay node that inspects the common 4-byte GRE prefix
// (flags + protocol) to determine the GRE version without consuming
// bytes, matching proto_gre.h's panda_parse_gre_base / gre_len_check /
// gre_proto_version.
var GREBase = &ProtoNode{
	Name:      "gre_base",
	MinLen:    4,
	Overlay:   true,
	Len:       greBaseLen,
	NextProto: greVersion,
}

func greBaseLen(hdr []byte) int {
	flags := wire.BE16(hdr[0:2])
	if flags&greFlagRouting != 0 {
		// Routed GRE is unsupported; accept the packet as already fully
		// dissected rather than failing it.
		return stopcode.LenStopOkay
	}
	return 4
}

func greVersion(hdr []byte) uint32 {
	return uint32(wire.BE16(hdr[0:2]) & greFlagVersion)
}

// GREv0 is the version-0 GRE header: length is the 4-byte base plus
// whichever optional fields (csum/key/seq) the flags select; next_proto
// is the embedded EtherType, matching gre_v0_len / gre_v0_proto.
var GREv0 = &ProtoNode{
	Name:      "gre_v0",
	MinLen:    4,
	Encap:     true,
	Len:       greV0Len,
	NextProto: greV0NextProto,
}

func greV0Len(hdr []byte) int {
	flags := wire.BE16(hdr[0:2])
	return 4 + wire.FlagFieldsLength(flags, greV0FlagFields)
}

func greV0NextProto(hdr []byte) uint32 {
	return uint32(wire.BE16(hdr[2:4]))
}

// GREv1 is the version-1 (PPTP) GRE header. Per RFC 2637 (and
// gre_v1_len_check), it's only valid when protocol == GREProtoPPP and the
// KEY flag is set; otherwise the walk halts with Okay rather than
// descending into a header that isn't really PPTP.
var GREv1 = &ProtoNode{
	Name:      "gre_v1",
	MinLen:    4,
	Encap:     true,
	Len:       greV1Len,
	NextProto: greV1NextProto,
}

func greV1Len(hdr []byte) int {
	flags := wire.BE16(hdr[0:2])
	protocol := wire.BE16(hdr[2:4])
	if !(protocol == GREProtoPPP && flags&greFlagKey != 0) {
		return stopcode.LenStopOkay
	}
	return 4 + wire.FlagFieldsLength(flags, grePPTPFlagFields)
}

func greV1NextProto(hdr []byte) uint32 {
	// Protocol is already checked in greV1Len; the next node is always PPP.
	return uint32(GREProtoPPP)
}

// ExtractGREv0 fills GREInfo from a version-0 GRE header.
func ExtractGREv0(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	flags := wire.BE16(hdr[0:2])
	frame.GRE.Version = 0
	frame.GRE.Flags = flags
	frame.GRE.Protocol = wire.BE16(hdr[2:4])

	off := 4
	if flags&greFlagCsum != 0 {
		off += 4
	}
	if flags&greFlagKey != 0 {
		frame.GRE.HasKey = true
		if off+4 <= len(hdr) {
			frame.GRE.Key = wire.BE32(hdr[off : off+4])
		}
		off += 4
	}
}

// ExtractGREv1 fills GREInfo from a version-1 (PPTP) GRE header.
func ExtractGREv1(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	flags := wire.BE16(hdr[0:2])
	frame.GRE.Version = 1
	frame.GRE.Flags = flags
	frame.GRE.Protocol = wire.BE16(hdr[2:4])

	off := 4
	if flags&greFlagCsum != 0 {
		off += 4
	}
	frame.GRE.HasKey = flags&greFlagKey != 0
	if frame.GRE.HasKey && off+4 <= len(hdr) {
		frame.GRE.Key = wire.BE32(hdr[off:off+4]) & 0x0000ffff // GRE_PPTP_KEY_MASK, low 16 bits
	}
}
