// Package metadata defines the caller-owned metadata frame that parse
// nodes populate as the walk engine visits them, and the bounded frame
// rotation used when crossing an encapsulation boundary.
//
// spec.md describes MetadataFrame as opaque, caller-owned storage the
// engine treats as (base_ptr, frame_size, max_frame_num). This package
// realizes that contract as a Go slice of a single concrete struct (the
// union of every protocol's extracted fields, mirroring panda_metadata_all
// in parser_big.c) plus a bounded index, rather than raw pointer
// arithmetic — see DESIGN.md and SPEC_FULL.md §5 for the rationale.
package metadata

import "net"

// EtherInfo holds fields extracted by the Ethernet node.
type EtherInfo struct {
	SrcMAC, DstMAC net.HardwareAddr
	EtherType      uint16
}

// VLANInfo holds fields extracted by an 802.1Q/802.1AD node.
type VLANInfo struct {
	TCI       uint16
	EtherType uint16
}

// MPLSInfo holds fields extracted while walking an MPLS label stack.
type MPLSInfo struct {
	Labels []uint32 // one entry per shim, bottom-of-stack included
}

// IPInfo holds fields common to IPv4 and IPv6 extraction.
type IPInfo struct {
	Version    uint8
	SrcIP      net.IP
	DstIP      net.IP
	NextHeader uint8
	HopLimit   uint8 // IPv4 TTL or IPv6 Hop Limit
}

// IPv6EHInfo records an IPv6 extension header visited along the chain.
type IPv6EHInfo struct {
	NextHeader uint8
	HeaderLen  int
}

// IPv6FragInfo holds fields extracted from an IPv6 fragment header.
type IPv6FragInfo struct {
	Identification uint32
	FragmentOffset uint16
	MoreFragments  bool
}

// PortsInfo holds fields extracted by the UDP/SCTP/DCCP/TCP leaf.
type PortsInfo struct {
	SrcPort, DstPort uint16
}

// GREInfo holds fields extracted from a GRE v0 or v1 header.
type GREInfo struct {
	Version  uint8
	Flags    uint16
	Protocol uint16
	Key      uint32
	HasKey   bool
}

// ICMPInfo holds fields extracted from an ICMPv4/ICMPv6 header.
type ICMPInfo struct {
	Type, Code uint8
}

// ARPInfo holds fields extracted from an ARP or RARP header.
type ARPInfo struct {
	Operation        uint16
	SenderHW, SenderIP net.IP
	TargetHW, TargetIP net.IP
}

// TIPCInfo holds fields extracted from a TIPC header.
type TIPCInfo struct {
	UserData uint8
}

// TCPOptInfo accumulates TCP option TLV fields across the options walk.
type TCPOptInfo struct {
	MSS             uint16
	HasMSS          bool
	WindowScale     uint8
	HasWindowScale  bool
	TSVal, TSEcr    uint32
	HasTimestamps   bool
	SACKPermitted   bool
}

// Frame is the single metadata struct populated across a walk. One Frame
// is filled per encapsulation layer, up to Limits.MaxFrameNum+1 of them,
// via FrameSet.
type Frame struct {
	Ether   EtherInfo
	VLAN    VLANInfo
	MPLS    MPLSInfo
	IP      IPInfo
	IPv6EH  []IPv6EHInfo
	IPv6Frag IPv6FragInfo
	Ports   PortsInfo
	GRE     GREInfo
	ICMP    ICMPInfo
	ARP     ARPInfo
	TIPC    TIPCInfo
	TCPOpt  TCPOptInfo
}

// FrameSet is a bounded ring of Frame values, one per encapsulation layer
// up to maxFrameNum+1. A fresh FrameSet always starts positioned at frame
// 0; Rotate advances to the next frame while the bound allows, otherwise
// it leaves the index unchanged so later writes overwrite the current
// frame in place (spec.md §9 Open Question (a)).
type FrameSet struct {
	frames []Frame
	idx    int
}

// NewFrameSet allocates a FrameSet holding maxFrameNum+1 frames.
func NewFrameSet(maxFrameNum int) *FrameSet {
	if maxFrameNum < 0 {
		maxFrameNum = 0
	}
	return &FrameSet{frames: make([]Frame, maxFrameNum+1)}
}

// Current returns the frame the engine should write to right now.
func (fs *FrameSet) Current() *Frame {
	return &fs.frames[fs.idx]
}

// Index returns the index of the current frame (0-based).
func (fs *FrameSet) Index() int {
	return fs.idx
}

// Rotate advances to a new frame if the bound allows (idx < maxFrameNum),
// matching the engine step 6 rule: "if i < max_frame_num then f +=
// frame_size; i += 1". When the bound has already been reached, Rotate is
// a no-op and the next write overwrites the current frame.
func (fs *FrameSet) Rotate(maxFrameNum int) {
	if fs.idx < maxFrameNum {
		fs.idx++
	}
}

// Frames returns every frame populated so far, in order, for inspection
// (tests, the TUI, and driver reporting).
func (fs *FrameSet) Frames() []Frame {
	return fs.frames[:fs.idx+1]
}
