package parsers

import (
	"github.com/gopanda/panda/internal/decl"
	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/proto"
)

// DefaultEnv returns the identifier table a declaration-source file (§6.1)
// resolves against when it names one of this module's built-in protocols:
// every ProtoNode, extractor, handler, check_length, and TLV framing
// function that internal/parsers/big.go itself wires together by Go call,
// registered here under the same name a parser_big.c-style .decl file
// would use. This is what lets cmd/pandagen compile a text declaration
// file at all — the front end has no linker, so the symbol table a real
// preprocessor's invocation environment would supply has to be handed in
// explicitly (see internal/decl/apply.go's Env doc comment).
func DefaultEnv() *decl.Env {
	return &decl.Env{
		Protos: map[string]*proto.ProtoNode{
			"mpls":       proto.MPLS,
			"arp":        proto.ARP,
			"rarp":       proto.RARP,
			"tipc":       proto.TIPC,
			"fcoe":       proto.FCoE,
			"batman":     proto.Batman,
			"igmp":       proto.IGMP,
			"icmp":       proto.ICMP,
			"icmpv6":     proto.ICMPv6,
			"udp":        proto.UDP,
			"sctp":       proto.SCTP,
			"dccp":       proto.DCCP,
			"tcp":        proto.TCP,
			"ip_overlay": proto.IPOverlay,
			"ipv4":       proto.IPv4,
			"ipv6":       proto.IPv6,
			"ipv6_eh":    proto.IPv6EH,
			"ipv6_frag":  proto.IPv6Frag,
			"gre_base":   proto.GREBase,
			"gre_v0":     proto.GREv0,
			"gre_v1":     proto.GREv1,
			"ppp":        proto.PPP,
			"vlan":       proto.VLAN,
			"ether":      proto.Ether,
		},
		Extractors: map[string]proto.ExtractFunc{
			"extract_ether":    proto.ExtractEther,
			"extract_vlan":     proto.ExtractVLAN,
			"extract_mpls":     proto.ExtractMPLS,
			"extract_arp":      proto.ExtractARP,
			"extract_tipc":     proto.ExtractTIPC,
			"extract_icmp":     proto.ExtractICMP,
			"extract_ports":    proto.ExtractPorts,
			"extract_ipv4":     proto.ExtractIPv4,
			"extract_ipv6":     proto.ExtractIPv6,
			"extract_ipv6_eh":  proto.ExtractIPv6EH,
			"extract_ipv6_frag": proto.ExtractIPv6Frag,
			"extract_grev0":    proto.ExtractGREv0,
			"extract_grev1":    proto.ExtractGREv1,
			"extract_tcp_mss":  proto.ExtractTCPOptionMSS,
			"extract_tcp_ws":   proto.ExtractTCPOptionWindowScale,
			"extract_tcp_ts":   proto.ExtractTCPOptionTimestamp,
			"extract_tcp_sack": proto.ExtractTCPOptionSACK,
		},
		Handlers: map[string]proto.HandleFunc{},
		CheckLens: map[string]graph.CheckLengthFunc{
			"tcp_opt_mss_check_length": proto.TCPOptionMSSCheckLength,
			"tcp_opt_ws_check_length":  proto.TCPOptionWindowScaleCheckLength,
			"tcp_opt_ts_check_length":  proto.TCPOptionTimestampCheckLength,
			"tcp_opt_sack_check_length": proto.TCPOptionSACKCheckLength,
		},
		TLVFrames: map[string]graph.TLVFrameFunc{
			"tcp_option_frame": proto.TCPOptionFrame,
		},
		Consts: map[string]uint32{
			"ETHERTYPE_IPV4":   proto.EtherTypeIPv4,
			"ETHERTYPE_IPV6":   proto.EtherTypeIPv6,
			"ETHERTYPE_8021Q":  proto.EtherType8021Q,
			"ETHERTYPE_8021AD": proto.EtherType8021AD,
			"ETHERTYPE_MPLSUC": proto.EtherTypeMPLSUC,
			"ETHERTYPE_MPLSMC": proto.EtherTypeMPLSMC,
			"ETHERTYPE_ARP":    proto.EtherTypeARP,
			"ETHERTYPE_RARP":   proto.EtherTypeRARP,
			"ETHERTYPE_TIPC":   proto.EtherTypeTIPC,
			"ETHERTYPE_BATMAN": proto.EtherTypeBatman,
			"ETHERTYPE_FCOE":   proto.EtherTypeFCoE,
			"ETHERTYPE_TEB":    proto.EtherTypeTEB,

			"IPPROTO_HOPOPTS":  proto.IPProtoHopOpts,
			"IPPROTO_TCP":      proto.IPProtoTCP,
			"IPPROTO_UDP":      proto.IPProtoUDP,
			"IPPROTO_ROUTING":  proto.IPProtoRouting,
			"IPPROTO_FRAGMENT": proto.IPProtoFragment,
			"IPPROTO_GRE":      proto.IPProtoGRE,
			"IPPROTO_ICMP":     proto.IPProtoICMP,
			"IPPROTO_IGMP":     proto.IPProtoIGMP,
			"IPPROTO_IPIP":     proto.IPProtoIPIP,
			"IPPROTO_IPV6":     proto.IPProtoIPv6,
			"IPPROTO_ICMPV6":   proto.IPProtoICMPv6,
			"IPPROTO_DESTOPTS": proto.IPProtoDestOpts,
			"IPPROTO_SCTP":     proto.IPProtoSCTP,
			"IPPROTO_DCCP":     proto.IPProtoDCCP,
			"IPPROTO_MPLS":     proto.IPProtoMPLS,

			"GRE_VERSION_0": 0,
			"GRE_VERSION_1": 1,
			"GREPROTO_PPP":  uint32(proto.GREProtoPPP),

			"PPP_IP":   proto.PPPIP,
			"PPP_IPV6": proto.PPPIPv6,

			"TCP_OPT_EOL":           proto.TCPOptEOL,
			"TCP_OPT_NOP":           proto.TCPOptNOP,
			"TCP_OPT_MSS":           proto.TCPOptMSS,
			"TCP_OPT_WINDOW_SCALE":  proto.TCPOptWindowScale,
			"TCP_OPT_SACK_PERMITTED": proto.TCPOptSackPermitted,
			"TCP_OPT_SACK":          proto.TCPOptSACK,
			"TCP_OPT_TIMESTAMP":     proto.TCPOptTimestamp,
		},
	}
}
