package proto

import (
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/stopcode"
	"github.com/gopanda/panda/internal/wire"
)

// TCP option kinds (RFC 793, RFC 1323, RFC 2018).
const (
	TCPOptEOL           = 0
	TCPOptNOP           = 1
	TCPOptMSS           = 2
	TCPOptWindowScale   = 3
	TCPOptSackPermitted = 4
	TCPOptSACK          = 5
	TCPOptTimestamp     = 8
)

// TCPOptionsOffset is where the option TLV walk starts: right after the
// fixed 20-byte TCP header.
const TCPOptionsOffset = 20

// TCP is the TCP leaf node. Its length is DataOffset*4; it carries a TLV
// sub-walk over the options area beyond the fixed header.
var TCP = &ProtoNode{
	Name:   "tcp",
	MinLen: 20,
	Len:    tcpLen,
}

func tcpLen(hdr []byte) int {
	// A too-small data offset is returned as-is; the engine's generic
	// "hlen < min_len" check (step 1) turns it into stopcode.Length, the
	// same convention ipv4Len uses for a too-small IHL.
	return int(hdr[12]>>4) * 4
}

// ExtractPorts fills PortsInfo from the first 4 bytes of any TCP, UDP,
// SCTP, or DCCP header — they all share this layout.
func ExtractPorts(hdr []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.Ports.SrcPort = wire.BE16(hdr[0:2])
	frame.Ports.DstPort = wire.BE16(hdr[2:4])
}

// TCPOptionFrame reads one TLV's type and total length (including the
// type/length bytes themselves) starting at buf[0], the protocol-specific
// framing step spec.md §4.4 step 4 delegates to each TLV-bearing
// protocol. EOL and NOP are the single-byte options with no length field.
func TCPOptionFrame(buf []byte) (kind uint32, tlvLen int, ok bool) {
	if len(buf) < 1 {
		return 0, 0, false
	}
	k := buf[0]
	if k == TCPOptEOL || k == TCPOptNOP {
		return uint32(k), 1, true
	}
	if len(buf) < 2 {
		return 0, 0, false
	}
	l := int(buf[1])
	if l < 2 {
		return 0, 0, false
	}
	return uint32(k), l, true
}

// tcpOptionCheckLength returns a CheckLength closure requiring the TLV's
// total length to equal want.
func tcpOptionCheckLength(want int) func([]byte, *metadata.Frame) stopcode.StopCode {
	return func(tlv []byte, _ *metadata.Frame) stopcode.StopCode {
		if len(tlv) != want {
			return stopcode.TLVLength
		}
		return stopcode.Okay
	}
}

// TCPOptionMSSCheckLength validates the Maximum Segment Size option
// (kind 2), which must be exactly 4 bytes.
var TCPOptionMSSCheckLength = tcpOptionCheckLength(4)

// TCPOptionWindowScaleCheckLength validates the Window Scale option
// (kind 3), which must be exactly 3 bytes.
var TCPOptionWindowScaleCheckLength = tcpOptionCheckLength(3)

// TCPOptionTimestampCheckLength validates the Timestamp option (kind 8),
// which must be exactly 10 bytes.
var TCPOptionTimestampCheckLength = tcpOptionCheckLength(10)

// TCPOptionSACKCheckLength validates the SACK option (kind 5): 2 header
// bytes plus one or more 8-byte edge pairs, so length must be 10, 18, 26,
// or 34.
func TCPOptionSACKCheckLength(tlv []byte, _ *metadata.Frame) stopcode.StopCode {
	n := len(tlv)
	if n < 10 || n > 34 || (n-2)%8 != 0 {
		return stopcode.TLVLength
	}
	return stopcode.Okay
}

// ExtractTCPOptionMSS fills TCPOptInfo.MSS.
func ExtractTCPOptionMSS(tlv []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.TCPOpt.HasMSS = true
	frame.TCPOpt.MSS = wire.BE16(tlv[2:4])
}

// ExtractTCPOptionWindowScale fills TCPOptInfo.WindowScale.
func ExtractTCPOptionWindowScale(tlv []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.TCPOpt.HasWindowScale = true
	frame.TCPOpt.WindowScale = tlv[2]
}

// ExtractTCPOptionTimestamp fills TCPOptInfo.TSVal/TSEcr.
func ExtractTCPOptionTimestamp(tlv []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.TCPOpt.HasTimestamps = true
	frame.TCPOpt.TSVal = wire.BE32(tlv[2:6])
	frame.TCPOpt.TSEcr = wire.BE32(tlv[6:10])
}

// ExtractTCPOptionSACK marks SACKPermitted (kind 4 triggers this
// extractor in the reference graph's tlv_table) and records the option
// was seen.
func ExtractTCPOptionSACK(_ []byte, frame *metadata.Frame, _ *Ctrl) {
	frame.TCPOpt.SACKPermitted = true
}
