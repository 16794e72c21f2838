// Package parsers wires the protocol node library (internal/proto) into
// the reference graph used throughout this module's tests and drivers —
// the Go-native counterpart of original_source/parser_big.c. It exists so
// the walk engine, the code generator, and the CLI drivers all exercise
// one shared, fully connected graph instead of each hand-rolling a partial
// one.
package parsers

import (
	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/proto"
)

// Big is the fully built reference graph: Ethernet/VLAN/MPLS at the top,
// IPv4/IPv6 with extension headers and fragments, GRE v0/v1 tunneling,
// PPP, TCP with its option TLV table, and the remaining leaf protocols
// from spec.md §4.2.
var Big = buildBig()

// BigEtherRoot is the root that expects an Ethernet header first.
var BigEtherRoot = Big.Roots["ether"]

// BigIPRoot is the root for captures that start directly at an IP
// header (e.g. payload already stripped of its link-layer framing, or a
// PPP session's inner packet), matching original_source/parser_big.c's
// second entry point.
var BigIPRoot = Big.Roots["ip"]

func buildBig() *graph.Graph {
	b := graph.NewBuilder()

	// --- Leaves with no further dispatch ---
	b.MakeLeafParseNode("mpls", proto.MPLS, proto.ExtractMPLS, nil)
	b.MakeLeafParseNode("arp", proto.ARP, proto.ExtractARP, nil)
	b.MakeLeafParseNode("rarp", proto.RARP, proto.ExtractARP, nil)
	b.MakeLeafParseNode("tipc", proto.TIPC, proto.ExtractTIPC, nil)
	b.MakeLeafParseNode("fcoe", proto.FCoE, nil, nil)
	b.MakeLeafParseNode("batman", proto.Batman, nil, nil)
	b.MakeLeafParseNode("igmp", proto.IGMP, nil, nil)
	b.MakeLeafParseNode("icmp", proto.ICMP, proto.ExtractICMP, nil)
	b.MakeLeafParseNode("icmpv6", proto.ICMPv6, proto.ExtractICMP, nil)
	b.MakeLeafParseNode("udp", proto.UDP, proto.ExtractPorts, nil)
	b.MakeLeafParseNode("sctp", proto.SCTP, proto.ExtractPorts, nil)
	b.MakeLeafParseNode("dccp", proto.DCCP, proto.ExtractPorts, nil)

	// --- TCP: leaf carrying a TLV sub-walk over its options ---
	b.MakeTLVParseNode("tcp_opt_eol", proto.TCPOptEOL, nil, nil, nil)
	b.MakeTLVParseNode("tcp_opt_nop", proto.TCPOptNOP, nil, nil, nil)
	b.MakeTLVParseNode("tcp_opt_mss", proto.TCPOptMSS, proto.TCPOptionMSSCheckLength, proto.ExtractTCPOptionMSS, nil)
	b.MakeTLVParseNode("tcp_opt_ws", proto.TCPOptWindowScale, proto.TCPOptionWindowScaleCheckLength, proto.ExtractTCPOptionWindowScale, nil)
	b.MakeTLVParseNode("tcp_opt_sackperm", proto.TCPOptSackPermitted, nil, proto.ExtractTCPOptionSACK, nil)
	b.MakeTLVParseNode("tcp_opt_sack", proto.TCPOptSACK, proto.TCPOptionSACKCheckLength, nil, nil)
	b.MakeTLVParseNode("tcp_opt_ts", proto.TCPOptTimestamp, proto.TCPOptionTimestampCheckLength, proto.ExtractTCPOptionTimestamp, nil)
	b.MakeTLVParseNode("tcp_opt_unknown", 0, nil, nil, nil) // wildcard: unrecognized kinds are skipped, not fatal
	b.MakeTLVTable("tcp_opt_table",
		graph.TLVEntrySpec{Type: proto.TCPOptEOL, Target: "tcp_opt_eol"},
		graph.TLVEntrySpec{Type: proto.TCPOptNOP, Target: "tcp_opt_nop"},
		graph.TLVEntrySpec{Type: proto.TCPOptMSS, Target: "tcp_opt_mss"},
		graph.TLVEntrySpec{Type: proto.TCPOptWindowScale, Target: "tcp_opt_ws"},
		graph.TLVEntrySpec{Type: proto.TCPOptSackPermitted, Target: "tcp_opt_sackperm"},
		graph.TLVEntrySpec{Type: proto.TCPOptSACK, Target: "tcp_opt_sack"},
		graph.TLVEntrySpec{Type: proto.TCPOptTimestamp, Target: "tcp_opt_ts"},
		graph.TLVEntrySpec{Wildcard: true, Target: "tcp_opt_unknown"},
	)
	b.MakeLeafTLVParseNode("tcp", proto.TCP, proto.ExtractPorts, nil,
		proto.TCPOptionFrame, proto.TCPOptionsOffset, "tcp_opt_table")

	// --- IP overlay: branches on version nibble without consuming bytes ---
	b.MakeParseNode("ip_overlay", proto.IPOverlay, nil, nil, "ip_version_table")
	b.MakeProtoTable("ip_version_table",
		graph.TableEntrySpec{Key: 4, Target: "ipv4"},
		graph.TableEntrySpec{Key: 6, Target: "ipv6"},
	)

	// --- IPv4/IPv6 version-check nodes: every link-layer entry point
	// (ether, GREv0, PPP) dispatches here instead of straight to "ipv4"/
	// "ipv6", matching parser_big.c's ipv4_check_node/ipv6_check_node
	// (lines ~81-96): a single-key table that accepts only the version the
	// outer protocol already promised, so a version mismatch misses the
	// table and stops at UNKNOWN_PROTO instead of falling through to
	// ipv4/ipv6's own len function (which would report FAIL). These reuse
	// the same overlay ProtoNode as ip_overlay, per ip.go's doc comment.
	b.MakeParseNode("ipv4_check", proto.IPOverlay, nil, nil, "ipv4_check_table")
	b.MakeProtoTable("ipv4_check_table",
		graph.TableEntrySpec{Key: 4, Target: "ipv4"},
	)
	b.MakeParseNode("ipv6_check", proto.IPOverlay, nil, nil, "ipv6_check_table")
	b.MakeProtoTable("ipv6_check_table",
		graph.TableEntrySpec{Key: 6, Target: "ipv6"},
	)

	// --- IPv4 ---
	b.MakeParseNode("ipv4", proto.IPv4, proto.ExtractIPv4, nil, "ip_next_table")

	// --- IPv6 and its extension header chain ---
	b.MakeParseNode("ipv6", proto.IPv6, proto.ExtractIPv6, nil, "ip_next_table")
	b.MakeParseNode("ipv6_eh", proto.IPv6EH, proto.ExtractIPv6EH, nil, "ip_next_table")
	b.MakeParseNode("ipv6_frag", proto.IPv6Frag, proto.ExtractIPv6Frag, nil, "ip_next_table")
	b.SetUnknownProtoPolicy("ipv6_frag", graph.PolicyStopOkay) // non-first fragment: already fully dissected

	// ip_next_table is shared by ipv4, ipv6, and every IPv6 extension
	// header: the IP protocol / IPv6 next-header byte spaces overlap for
	// every value this graph dispatches on, so one table serves both,
	// matching parser_big.c's shared ip_table.
	b.MakeProtoTable("ip_next_table",
		graph.TableEntrySpec{Key: proto.IPProtoTCP, Target: "tcp"},
		graph.TableEntrySpec{Key: proto.IPProtoUDP, Target: "udp"},
		graph.TableEntrySpec{Key: proto.IPProtoICMP, Target: "icmp"},
		graph.TableEntrySpec{Key: proto.IPProtoICMPv6, Target: "icmpv6"},
		graph.TableEntrySpec{Key: proto.IPProtoIGMP, Target: "igmp"},
		graph.TableEntrySpec{Key: proto.IPProtoGRE, Target: "gre_base"},
		graph.TableEntrySpec{Key: proto.IPProtoSCTP, Target: "sctp"},
		graph.TableEntrySpec{Key: proto.IPProtoDCCP, Target: "dccp"},
		graph.TableEntrySpec{Key: proto.IPProtoIPIP, Target: "ip_overlay"},
		graph.TableEntrySpec{Key: proto.IPProtoIPv6, Target: "ip_overlay"},
		graph.TableEntrySpec{Key: proto.IPProtoHopOpts, Target: "ipv6_eh"},
		graph.TableEntrySpec{Key: proto.IPProtoRouting, Target: "ipv6_eh"},
		graph.TableEntrySpec{Key: proto.IPProtoDestOpts, Target: "ipv6_eh"},
		graph.TableEntrySpec{Key: proto.IPProtoFragment, Target: "ipv6_frag"},
	)

	// --- GRE v0/v1 ---
	b.MakeParseNode("gre_base", proto.GREBase, nil, nil, "gre_version_table")
	b.MakeProtoTable("gre_version_table",
		graph.TableEntrySpec{Key: 0, Target: "gre_v0"},
		graph.TableEntrySpec{Key: 1, Target: "gre_v1"},
	)
	b.MakeParseNode("gre_v0", proto.GREv0, proto.ExtractGREv0, nil, "gre_v0_table")
	b.MakeProtoTable("gre_v0_table",
		graph.TableEntrySpec{Key: proto.EtherTypeIPv4, Target: "ipv4_check"},
		graph.TableEntrySpec{Key: proto.EtherTypeIPv6, Target: "ipv6_check"},
		graph.TableEntrySpec{Key: proto.EtherTypeTEB, Target: "ether"},
	)
	b.MakeParseNode("gre_v1", proto.GREv1, proto.ExtractGREv1, nil, "gre_v1_table")
	b.MakeProtoTable("gre_v1_table",
		graph.TableEntrySpec{Key: uint32(proto.GREProtoPPP), Target: "ppp"},
	)

	// --- PPP (reached only via GRE v1 / PPTP) ---
	b.MakeParseNode("ppp", proto.PPP, nil, nil, "ppp_table")
	b.MakeProtoTable("ppp_table",
		graph.TableEntrySpec{Key: proto.PPPIP, Target: "ipv4_check"},
		graph.TableEntrySpec{Key: proto.PPPIPv6, Target: "ipv6_check"},
	)

	// --- VLAN (802.1Q/AD), stackable ---
	b.MakeParseNode("vlan", proto.VLAN, proto.ExtractVLAN, nil, "ether_table")

	// --- Ethernet, the top-level root ---
	b.MakeParseNode("ether", proto.Ether, proto.ExtractEther, nil, "ether_table")
	b.MakeProtoTable("ether_table",
		graph.TableEntrySpec{Key: proto.EtherTypeIPv4, Target: "ipv4_check"},
		graph.TableEntrySpec{Key: proto.EtherTypeIPv6, Target: "ipv6_check"},
		graph.TableEntrySpec{Key: proto.EtherType8021Q, Target: "vlan"},
		graph.TableEntrySpec{Key: proto.EtherType8021AD, Target: "vlan"},
		graph.TableEntrySpec{Key: proto.EtherTypeMPLSUC, Target: "mpls"},
		graph.TableEntrySpec{Key: proto.EtherTypeMPLSMC, Target: "mpls"},
		graph.TableEntrySpec{Key: proto.EtherTypeARP, Target: "arp"},
		graph.TableEntrySpec{Key: proto.EtherTypeRARP, Target: "rarp"},
		graph.TableEntrySpec{Key: proto.EtherTypeTIPC, Target: "tipc"},
		graph.TableEntrySpec{Key: proto.EtherTypeBatman, Target: "batman"},
		graph.TableEntrySpec{Key: proto.EtherTypeFCoE, Target: "fcoe"},
	)

	b.ParserAdd("ether", "Ethernet entry point", "ether")
	b.ParserAdd("ip", "raw IP entry point (version-sniffing overlay)", "ip_overlay")

	g, err := b.Build()
	if err != nil {
		panic("parsers: buildBig: " + err.Error())
	}
	return g
}
