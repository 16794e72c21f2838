// Package proto is the protocol node library (component C2): one
// ProtoNode plus metadata extractor and handler per supported protocol
// header, in the idiom of spec.md §4.2.
package proto

// Ctrl carries the small piece of per-step state that extractors and
// handlers need to bound their own reads and reason about nesting: the
// current header's length (as computed by the engine in step 1) and the
// current encapsulation depth.
type Ctrl struct {
	HeaderLen  int
	EncapDepth int
}
