package proto

import (
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/wire"
)

// mplsMaxLabels bounds the shim-stack walk so a buffer with no
// bottom-of-stack bit set can't make Len scan past a reasonable label
// count.
const mplsMaxLabels = 32

// MPLS is a leaf node: it walks the label shim stack itself (no table,
// since nothing beneath an MPLS stack is identified by a protocol
// number in this graph) until it sees the bottom-of-stack bit.
var MPLS = &ProtoNode{
	Name:   "mpls",
	MinLen: 4,
	Len:    mplsLen,
}

func mplsBottomOfStack(shim uint32) bool {
	return shim&0x100 != 0
}

func mplsLen(hdr []byte) int {
	n := 0
	for n+4 <= len(hdr) && n/4 < mplsMaxLabels {
		shim := wire.BE32(hdr[n : n+4])
		n += 4
		if mplsBottomOfStack(shim) {
			return n
		}
	}
	if n == 0 {
		return 4
	}
	return n
}

// ExtractMPLS fills MPLSInfo.Labels with one entry per shim in the stack,
// per-label value shifted right 12 bits (the 20-bit label field).
func ExtractMPLS(hdr []byte, frame *metadata.Frame, ctrl *Ctrl) {
	hlen := ctrl.HeaderLen
	if hlen > len(hdr) {
		hlen = len(hdr)
	}
	labels := make([]uint32, 0, hlen/4)
	for n := 0; n+4 <= hlen; n += 4 {
		shim := wire.BE32(hdr[n : n+4])
		labels = append(labels, shim>>12)
	}
	frame.MPLS.Labels = labels
}
