package proto

import (
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/stopcode"
)

// LenFunc computes the actual header length from the header bytes
// (which are guaranteed to be at least MinLen long). It returns either a
// non-negative length or one of the stopcode.LenStop* sentinels.
type LenFunc func(hdr []byte) int

// NextProtoFunc returns the dispatch key used to look up the next node in
// the current node's Table. Per spec.md §9 Open Question (b), NextProto
// never itself encodes a stop condition — only Len does.
type NextProtoFunc func(hdr []byte) uint32

// ExtractFunc populates frame from the current header.
type ExtractFunc func(hdr []byte, frame *metadata.Frame, ctrl *Ctrl)

// HandleFunc runs protocol-specific logic that may abort the walk. A
// return of stopcode.Okay means "continue".
type HandleFunc func(hdr []byte, frame *metadata.Frame, ctrl *Ctrl) stopcode.StopCode

// ProtoNode is the static description of a protocol header, independent
// of where it sits in a parse graph (spec.md §3 "ProtoNode").
type ProtoNode struct {
	Name      string
	MinLen    int
	Len       LenFunc       // optional; nil means "always MinLen"
	NextProto NextProtoFunc // optional; nil means "leaf, no dispatch key"
	Overlay   bool
	Encap     bool
}

// HeaderLen resolves the actual header length for hdr, which must already
// be known to be at least n.MinLen bytes. It returns the header length and
// true, or a stop code and false if Len reported one.
func (n *ProtoNode) HeaderLen(hdr []byte) (int, stopcode.StopCode, bool) {
	if n.Len == nil {
		return n.MinLen, stopcode.Okay, true
	}
	hlen := n.Len(hdr)
	if hlen < 0 {
		return 0, stopcode.LenToStopCode(hlen), false
	}
	if hlen == 0 {
		return n.MinLen, stopcode.Okay, true
	}
	return hlen, stopcode.Okay, true
}
