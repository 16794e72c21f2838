package proto

import "github.com/gopanda/panda/internal/metadata"

// IPv6 next-header values relevant to extension-header walking.
const (
	IPProtoHopOpts  = 0
	IPProtoTCP      = 6
	IPProtoUDP      = 17
	IPProtoRouting  = 43
	IPProtoFragment = 44
	IPProtoGRE      = 47
	IPProtoICMP     = 1
	IPProtoIGMP     = 2
	IPProtoIPIP     = 4
	IPProtoIPv6     = 41
	IPProtoICMPv6   = 58
	IPProtoDestOpts = 60
	IPProtoSCTP     = 132
	IPProtoDCCP     = 33
	IPProtoMPLS     = 137
)

// IPv6EH is the hop-by-hop/routing/destination-options extension header
// node: length is (hdrlen+1)*8 and the next-header byte sits at offset 0.
var IPv6EH = &ProtoNode{
	Name:      "ipv6_eh",
	MinLen:    8,
	Len:       ipv6EHLen,
	NextProto: ipv6EHNextProto,
}

func ipv6EHLen(hdr []byte) int {
	return (int(hdr[1]) + 1) * 8
}

func ipv6EHNextProto(hdr []byte) uint32 {
	return uint32(hdr[0])
}

// ExtractIPv6EH appends one IPv6EHInfo entry per extension header visited.
func ExtractIPv6EH(hdr []byte, frame *metadata.Frame, ctrl *Ctrl) {
	frame.IPv6EH = append(frame.IPv6EH, metadata.IPv6EHInfo{
		NextHeader: hdr[0],
		HeaderLen:  ctrl.HeaderLen,
	})
}
