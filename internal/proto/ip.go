package proto

// IPOverlay is the shared "peek the IP version nibble" node (spec.md
// §4.2 "IP overlay"). It never consumes bytes; the same ProtoNode backs
// three distinct parse nodes in the reference graph (parsers/big.go):
// the ethernet-reached IPv4/IPv6 version-check nodes and the raw-IP
// parser's root overlay, which differ only in which table they dispatch
// through (parser_big.c's ipv4_check_table/ipv6_check_table/ip_table all
// reuse panda_parse_ip).
var IPOverlay = &ProtoNode{
	Name:      "ip",
	MinLen:    1,
	Overlay:   true,
	NextProto: ipVersionNibble,
}

func ipVersionNibble(hdr []byte) uint32 {
	return uint32(hdr[0] >> 4)
}
