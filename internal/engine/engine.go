// Package engine is the walk engine (component C5): the generic,
// iterative interpreter that walks a byte buffer from a graph root,
// performing the seven per-node steps of spec.md §4.4. It shares
// semantics with the specialized walker internal/codegen emits — spec.md
// §8 invariant 5, "Interpreter ≡ Generated".
package engine

import (
	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/proto"
	"github.com/gopanda/panda/internal/stopcode"
)

// Ctrl is the small per-step value extractors and handlers receive: the
// current header's length and the current encapsulation depth (spec.md
// §6.2). It is exactly proto.Ctrl — the walk engine and the protocol
// node library share one definition rather than duplicating it.
type Ctrl = proto.Ctrl

// Limits bounds the walk's total work (spec.md §5): max_encaps,
// max_overlay_chain, max_tlvs, max_tlv_nesting, max_frame_num.
type Limits struct {
	MaxEncaps       int
	MaxOverlayChain int
	MaxTLVs         int
	MaxTLVNesting   int
	MaxFrameNum     int
}

// DefaultLimits returns the bounds used by spec.md §8's end-to-end
// scenarios (max_encaps=4, max_frame_num=2), with generous TLV and
// overlay-chain bounds for everyday traffic.
func DefaultLimits() Limits {
	return Limits{
		MaxEncaps:       4,
		MaxOverlayChain: 8,
		MaxTLVs:         16,
		MaxTLVNesting:   4,
		MaxFrameNum:     2,
	}
}

// NodeOutcome is the result of running spec.md §4.4 steps 1–4 (length
// check, metadata extraction, handler, TLV sub-walk) for one node. Stop
// is true when the walk must end here — either a failure, or node turned
// out to be a leaf — in which case SC is the value to return. When Stop
// is false, Hdr/HLen are valid and the caller performs steps 5–7 (dispatch
// the generic way via node.Table, or the specialized way internal/codegen
// generates as a static switch over the same keys).
type NodeOutcome struct {
	Hdr  []byte
	HLen int
	SC   stopcode.StopCode
	Stop bool
}

// RunNode executes steps 1–4 for node positioned at bytes[p:]. Split out
// from Parse so internal/codegen's generated per-vertex functions can call
// the identical step logic instead of duplicating it — the same relationship
// original_source/c_def.template.c has between its generated per-node
// functions and the shared check_pkt_len/panda_parse_tlv inline helpers.
func RunNode(node *graph.ParseNode, p int, bytes []byte, frame *metadata.Frame, encapDepth int, limits Limits) NodeOutcome {
	hdr := bytes[p:]
	r := len(hdr)

	// Step 1: length check.
	if r < node.Proto.MinLen {
		return NodeOutcome{SC: stopcode.Length, Stop: true}
	}
	hlen, sc, ok := node.Proto.HeaderLen(hdr)
	if !ok {
		return NodeOutcome{SC: sc, Stop: true}
	}
	if hlen < node.Proto.MinLen || r < hlen {
		return NodeOutcome{SC: stopcode.Length, Stop: true}
	}

	ctrl := &Ctrl{HeaderLen: hlen, EncapDepth: encapDepth}

	// Step 2: metadata.
	if node.Extract != nil {
		node.Extract(hdr, frame, ctrl)
	}

	// Step 3: handler.
	if node.Handle != nil {
		if sc := node.Handle(hdr, frame, ctrl); sc != stopcode.Okay {
			return NodeOutcome{SC: sc, Stop: true}
		}
	}

	// Step 4: TLV sub-walk.
	if node.HasTLVs() {
		if sc := WalkTLVs(node, hdr, hlen, frame, ctrl, limits); sc != stopcode.Okay {
			return NodeOutcome{SC: sc, Stop: true}
		}
	}

	if node.IsLeaf() {
		return NodeOutcome{Hdr: hdr, HLen: hlen, SC: stopcode.Okay, Stop: true}
	}
	return NodeOutcome{Hdr: hdr, HLen: hlen, SC: stopcode.Okay, Stop: false}
}

// Advance performs step 6 (spec.md §4.4, SPEC_FULL.md Open Question (g)):
// an overlay node never moves the cursor; every other node advances by
// hlen and, if it also encapsulates, bumps the encap depth (bound-checked)
// and attempts a frame rotation. ok is false when a bound was exceeded, in
// which case sc is the stop code to return immediately.
func Advance(node *graph.ParseNode, p, hlen, overlayRun, encapDepth int, frames *metadata.FrameSet, limits Limits) (newP, newOverlayRun, newEncapDepth int, sc stopcode.StopCode, ok bool) {
	if node.Proto.Overlay {
		overlayRun++
		if overlayRun > limits.MaxOverlayChain {
			// spec.md §9 names no dedicated stop code for an exceeded
			// overlay chain; FAIL is the closest taxonomy member for a
			// guard-rail abort that isn't a length or dispatch failure.
			return p, overlayRun, encapDepth, stopcode.Fail, false
		}
		return p, overlayRun, encapDepth, stopcode.Okay, true
	}

	p += hlen
	overlayRun = 0
	if node.Proto.Encap {
		encapDepth++
		if encapDepth > limits.MaxEncaps {
			return p, overlayRun, encapDepth, stopcode.EncapDepth, false
		}
		frames.Rotate(limits.MaxFrameNum)
	}
	return p, overlayRun, encapDepth, stopcode.Okay, true
}

// Parse walks bytes from root against limits, writing extracted metadata
// into frames, and returns the terminating stop code (spec.md §4.4,
// §6.2 "parse(parser_handle, bytes, ctrl, frame) -> StopCode").
//
// The walk is iterative: it never recurses, so arbitrarily deep tunneling
// (bounded by MaxEncaps) costs no stack (spec.md §4.4, "The engine is
// iterative... so deeply tunneled packets do not consume stack").
func Parse(root *graph.Root, bytes []byte, limits Limits, frames *metadata.FrameSet) stopcode.StopCode {
	node := root.Node
	p := 0
	encapDepth := 0
	overlayRun := 0

	for {
		outcome := RunNode(node, p, bytes, frames.Current(), encapDepth, limits)
		if outcome.Stop {
			return outcome.SC
		}

		// Step 5: dispatch.
		key := node.Proto.NextProto(outcome.Hdr)
		target, found := node.Table.Lookup(key)
		if !found {
			return node.UnknownProtoPolicy.Resolve()
		}

		newP, newOverlayRun, newEncapDepth, sc, ok := Advance(node, p, outcome.HLen, overlayRun, encapDepth, frames, limits)
		if !ok {
			return sc
		}
		p, overlayRun, encapDepth = newP, newOverlayRun, newEncapDepth

		// Step 7: continue at the target node.
		node = target
	}
}

// WalkTLVs iterates the TLV area [tlvOffset, hlen) of hdr, dispatching
// each TLV by type through node's TLVTable (spec.md §4.4 step 4). Exported
// so internal/codegen's generated functions can call it directly instead
// of re-implementing the TLV loop.
func WalkTLVs(node *graph.ParseNode, hdr []byte, hlen int, frame *metadata.Frame, ctrl *Ctrl, limits Limits) stopcode.StopCode {
	off := node.TLVOffset
	if off > hlen {
		off = hlen
	}
	count := 0
	depth := 1 // this engine models one TLV level per node; see SPEC_FULL.md.
	if depth > limits.MaxTLVNesting {
		return stopcode.TLVLength
	}

	for off < hlen {
		if count >= limits.MaxTLVs {
			return stopcode.TLVLength
		}
		count++

		buf := hdr[off:hlen]
		typ, tlvLen, ok := node.TLVFrame(buf)
		if !ok || tlvLen <= 0 || off+tlvLen > hlen {
			return stopcode.TLVLength
		}
		tlv := buf[:tlvLen]

		tn, found := node.TLVTable.Lookup(typ)
		if !found {
			return resolveUnknownTLV(node.UnknownTLVPolicy)
		}

		if tn.CheckLength != nil {
			if sc := tn.CheckLength(tlv, frame); sc != stopcode.Okay {
				return sc
			}
		}
		if tn.Extract != nil {
			tn.Extract(tlv, frame, ctrl)
		}
		if tn.Handle != nil {
			if sc := tn.Handle(tlv, frame, ctrl); sc != stopcode.Okay {
				return sc
			}
		}

		off += tlvLen
	}
	return stopcode.Okay
}

func resolveUnknownTLV(policy graph.UnknownProtoPolicy) stopcode.StopCode {
	switch policy {
	case graph.PolicyStopOkay, graph.PolicyContinueAsLeaf:
		return stopcode.Okay
	default:
		return stopcode.UnknownTLV
	}
}
