package engine

import (
	"bytes"
	"testing"

	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/parsers"
	"github.com/gopanda/panda/internal/stopcode"
)

func ether(dst, src [6]byte, ethertype uint16) []byte {
	b := make([]byte, 14)
	copy(b[0:6], dst[:])
	copy(b[6:12], src[:])
	b[12], b[13] = byte(ethertype>>8), byte(ethertype)
	return b
}

func ipv4(protocol byte, src, dst [4]byte) []byte {
	b := make([]byte, 20)
	b[0] = 0x45 // version 4, IHL 5
	b[8] = 64   // TTL
	b[9] = protocol
	copy(b[12:16], src[:])
	copy(b[16:20], dst[:])
	return b
}

func ipv6(nextHeader byte, src, dst [16]byte) []byte {
	b := make([]byte, 40)
	b[0] = 0x60 // version 6, zero flow label
	b[6] = nextHeader
	b[7] = 64 // hop limit
	copy(b[8:24], src[:])
	copy(b[24:40], dst[:])
	return b
}

func tcpNoOpts(srcPort, dstPort uint16) []byte {
	b := make([]byte, 20)
	b[0], b[1] = byte(srcPort>>8), byte(srcPort)
	b[2], b[3] = byte(dstPort>>8), byte(dstPort)
	b[12] = 0x50 // data offset 5 (20 bytes, no options)
	return b
}

func udp(srcPort, dstPort, length uint16) []byte {
	b := make([]byte, 8)
	b[0], b[1] = byte(srcPort>>8), byte(srcPort)
	b[2], b[3] = byte(dstPort>>8), byte(dstPort)
	b[4], b[5] = byte(length>>8), byte(length)
	return b
}

func icmp(typ, code byte) []byte {
	return []byte{typ, code, 0, 0}
}

func greV0(flags, protocol uint16) []byte {
	b := make([]byte, 4)
	b[0], b[1] = byte(flags>>8), byte(flags)
	b[2], b[3] = byte(protocol>>8), byte(protocol)
	return b
}

func greV1PPTP(flags uint16, key uint32) []byte {
	b := make([]byte, 8)
	b[0], b[1] = byte(flags>>8), byte(flags)
	b[2], b[3] = 0x88, 0x0b
	b[4], b[5], b[6], b[7] = byte(key>>24), byte(key>>16), byte(key>>8), byte(key)
	return b
}

func ppp(protocol uint16) []byte {
	return []byte{byte(protocol >> 8), byte(protocol)}
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

var emptyMAC [6]byte
var ip4a = [4]byte{10, 0, 0, 1}
var ip4b = [4]byte{10, 0, 0, 2}
var ip6a = [16]byte{0x20, 0x01}
var ip6b = [16]byte{0x20, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2}

func TestScenarioEthernetIPv4TCP(t *testing.T) {
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		ipv4(6, ip4a, ip4b),
		tcpNoOpts(8080, 54321),
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Okay {
		t.Fatalf("stop code = %v, want Okay", sc)
	}
	f := frames.Current()
	if f.IP.SrcIP.String() != "10.0.0.1" || f.IP.DstIP.String() != "10.0.0.2" {
		t.Fatalf("IP addrs = %s -> %s", f.IP.SrcIP, f.IP.DstIP)
	}
	if f.Ports.SrcPort != 8080 || f.Ports.DstPort != 54321 {
		t.Fatalf("ports = %d -> %d, want 8080 -> 54321", f.Ports.SrcPort, f.Ports.DstPort)
	}
}

func TestScenarioEthernetIPv6UDP(t *testing.T) {
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x86dd),
		ipv6(17, ip6a, ip6b),
		udp(60000, 53, 8),
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Okay {
		t.Fatalf("stop code = %v, want Okay", sc)
	}
	f := frames.Current()
	if f.IP.Version != 6 {
		t.Fatalf("IP version = %d, want 6", f.IP.Version)
	}
	if f.Ports.SrcPort != 60000 || f.Ports.DstPort != 53 {
		t.Fatalf("ports = %d -> %d, want 60000 -> 53", f.Ports.SrcPort, f.Ports.DstPort)
	}
}

func TestScenarioTunneledIPv4GREIPv4ICMP(t *testing.T) {
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		ipv4(47, ip4a, ip4b), // outer IPv4, protocol GRE
		greV0(0x0000, 0x0800),
		ipv4(1, ip4b, ip4a), // inner IPv4, protocol ICMP
		icmp(8, 0),
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Okay {
		t.Fatalf("stop code = %v, want Okay", sc)
	}
	if frames.Index() != 1 {
		t.Fatalf("frame index = %d, want 1 (one encap crossed)", frames.Index())
	}
	all := frames.Frames()
	if len(all) != 2 {
		t.Fatalf("len(Frames()) = %d, want 2", len(all))
	}
	if all[0].IP.SrcIP.String() != "10.0.0.1" {
		t.Fatalf("outer frame src = %s, want 10.0.0.1", all[0].IP.SrcIP)
	}
	if all[1].IP.SrcIP.String() != "10.0.0.2" {
		t.Fatalf("inner frame src = %s, want 10.0.0.2", all[1].IP.SrcIP)
	}
	if all[1].ICMP.Type != 8 {
		t.Fatalf("inner ICMP type = %d, want 8", all[1].ICMP.Type)
	}
}

func TestScenarioGREv1PPTPPPPIPv4(t *testing.T) {
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		ipv4(47, ip4a, ip4b),
		greV1PPTP(0x2001, 5), // version=1 (low 3 bits), KEY flag set
		ppp(0x0021),          // PPPIP
		ipv4(1, ip4b, ip4a),
		icmp(0, 0),
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Okay {
		t.Fatalf("stop code = %v, want Okay", sc)
	}
}

func TestScenarioMalformedIHL(t *testing.T) {
	bad := ipv4(6, ip4a, ip4b)
	bad[0] = 0x44 // IHL=4 -> 16 bytes, below the 20-byte minimum
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		bad,
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Length {
		t.Fatalf("stop code = %v, want Length", sc)
	}
}

func TestScenarioEtherTypeIPv4VersionMismatch(t *testing.T) {
	// EtherType claims IPv4 but the header's version nibble says 6: the
	// ipv4_check node's single-key table misses before ipv4's own len
	// function ever runs, so the walk stops at UnknownProto rather than
	// Fail (parser_big.c's ipv4_check_node/ipv6_check_node behavior).
	mismatched := ipv4(0, ip4a, ip4b)
	mismatched[0] = 0x60 // version 6, overriding ipv4()'s default 0x45
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		mismatched,
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.UnknownProto {
		t.Fatalf("stop code = %v, want UnknownProto", sc)
	}
}

func TestScenarioGREWithRoutingFlag(t *testing.T) {
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		ipv4(47, ip4a, ip4b),
		greV0(0x4000, 0x0800), // ROUTING flag set
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Okay {
		t.Fatalf("stop code = %v, want Okay", sc)
	}
	if frames.Current().GRE.Version != 0 {
		t.Fatalf("no inner GRE version fields should have been touched by the base overlay")
	}
}

func TestZeroLengthInput(t *testing.T) {
	frames := metadata.NewFrameSet(0)
	sc := Parse(parsers.BigEtherRoot, nil, DefaultLimits(), frames)
	if sc != stopcode.Length {
		t.Fatalf("stop code = %v, want Length", sc)
	}
}

func TestGREv1WithoutKeyStopsOkay(t *testing.T) {
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		ipv4(47, ip4a, ip4b),
		greV1PPTP(0x0001, 0), // version 1 but no KEY flag
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Okay {
		t.Fatalf("stop code = %v, want Okay", sc)
	}
}

func TestIPv6NonFirstFragmentTreatedAsLeaf(t *testing.T) {
	frag := make([]byte, 8)
	frag[0] = 6                    // next header: TCP
	frag[2], frag[3] = 0x00, 0x08 // fragment offset 1 (non-first), more=0
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x86dd),
		ipv6(44, ip6a, ip6b), // next header: fragment
		frag,
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Okay {
		t.Fatalf("stop code = %v, want Okay", sc)
	}
	if frames.Current().Ports.SrcPort != 0 {
		t.Fatalf("non-first fragment must not attempt to dissect a TCP header past it")
	}
}

func TestIPInIPOverlayDispatch(t *testing.T) {
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		ipv4(4, ip4a, ip4b), // protocol 4: IP-in-IP
		ipv4(6, ip4b, ip4a),
		tcpNoOpts(1, 2),
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.Okay {
		t.Fatalf("stop code = %v, want Okay", sc)
	}
}

func TestEncapDepthExceeded(t *testing.T) {
	// Five GRE-in-IPv4 layers exceed DefaultLimits().MaxEncaps == 4 once
	// the fifth encap (the tcp-bearing innermost GRE) is crossed.
	inner := join(
		ipv4(6, ip4a, ip4b),
		tcpNoOpts(1, 2),
	)
	for i := 0; i < 5; i++ {
		inner = join(
			ipv4(47, ip4a, ip4b),
			greV0(0, 0x0800),
			inner,
		)
	}
	pkt := join(ether(emptyMAC, emptyMAC, 0x0800), inner)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.EncapDepth {
		t.Fatalf("stop code = %v, want EncapDepth", sc)
	}
}

func TestTCPMalformedOptionLength(t *testing.T) {
	b := make([]byte, 24) // data offset 6 -> 4 bytes of options
	b[12] = 0x60
	b[20] = 2 // MSS kind
	b[21] = 3 // malformed: MSS must be exactly 4 bytes
	b[22], b[23] = 0, 0
	pkt := join(
		ether(emptyMAC, emptyMAC, 0x0800),
		ipv4(6, ip4a, ip4b),
		b,
	)
	frames := metadata.NewFrameSet(2)
	sc := Parse(parsers.BigEtherRoot, pkt, DefaultLimits(), frames)
	if sc != stopcode.TLVLength {
		t.Fatalf("stop code = %v, want TLVLength", sc)
	}
}
