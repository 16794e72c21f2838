package proto

import (
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/wire"
)

// VLAN is the 802.1Q/802.1AD tag node: a 4-byte header (TCI + inner
// EtherType) dispatching back into an Ethernet-keyed table.
var VLAN = &ProtoNode{
	Name:      "vlan",
	MinLen:    4,
	NextProto: vlanNextProto,
}

func vlanNextProto(hdr []byte) uint32 {
	return uint32(wire.BE16(hdr[2:4]))
}

// ExtractVLAN fills VLANInfo from a 4-byte VLAN tag.
func ExtractVLAN(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.VLAN.TCI = wire.BE16(hdr[0:2])
	frame.VLAN.EtherType = wire.BE16(hdr[2:4])
}
