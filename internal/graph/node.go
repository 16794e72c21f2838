// Package graph is the graph model (component C3) and builder (component
// C4): parse nodes, dispatch tables, TLV sub-graphs, and the
// declare/define/connect algorithm of spec.md §4.3 that turns declaration
// records into a directed graph of typed vertices and edges.
package graph

import (
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/proto"
	"github.com/gopanda/panda/internal/stopcode"
)

// UnknownProtoPolicy selects what a parse node does when its next_proto
// dispatch key misses the table and no wildcard is declared (spec.md §3
// ParseNode.unknown_proto_policy, §4.4 step 5).
type UnknownProtoPolicy int

const (
	// PolicyUnknownProto is the default: a table miss halts the walk with
	// stopcode.UnknownProto.
	PolicyUnknownProto UnknownProtoPolicy = iota
	// PolicyStopOkay treats a table miss as a clean terminus, as if the
	// packet were already fully dissected (used by ipv6_frag for non-first
	// fragments).
	PolicyStopOkay
	// PolicyContinueAsLeaf treats the node as if it had no table at all:
	// the walk halts okay without consulting next_proto a second time.
	PolicyContinueAsLeaf
)

func (p UnknownProtoPolicy) String() string {
	switch p {
	case PolicyUnknownProto:
		return "stop-fail"
	case PolicyStopOkay:
		return "stop-okay"
	case PolicyContinueAsLeaf:
		return "continue-as-leaf"
	default:
		return "unknown-policy"
	}
}

// Resolve maps the policy to the stop code the engine returns on a table
// miss. Both PolicyStopOkay and PolicyContinueAsLeaf terminate the walk
// successfully; they are kept as distinct named policies because they
// arise from different protocol reasoning (spec.md §9), even though the
// engine's observable outcome is identical.
func (p UnknownProtoPolicy) Resolve() stopcode.StopCode {
	switch p {
	case PolicyStopOkay, PolicyContinueAsLeaf:
		return stopcode.Okay
	default:
		return stopcode.UnknownProto
	}
}

// TLVFrameFunc reads one TLV's discriminator and total byte length
// (header bytes included) from the start of buf, the protocol-specific
// framing step spec.md §4.4 step 4 requires before a TLV can be looked up
// or length-checked.
type TLVFrameFunc func(buf []byte) (kind uint32, tlvLen int, ok bool)

// CheckLengthFunc validates a single TLV's declared length against what
// its type requires (spec.md §3 TlvNode.check_length).
type CheckLengthFunc func(tlv []byte, frame *metadata.Frame) stopcode.StopCode

// TlvNode is a TLV sub-parser attached to a TLV-bearing ParseNode
// (spec.md §3 "TlvNode").
type TlvNode struct {
	Name        string
	Type        uint32
	CheckLength CheckLengthFunc
	Extract     proto.ExtractFunc
	Handle      proto.HandleFunc
}

// Table is the ordered discriminator-to-node dispatch map of spec.md §3
// "Table". Lookup is by exact key match; a wildcard node is consulted on
// miss before falling back to the node's UnknownProtoPolicy.
type Table struct {
	Name     string
	entries  map[uint32]*ParseNode
	keys     []uint32 // insertion order, for codegen/dot readability only
	wildcard *ParseNode
}

// NewTable returns an empty dispatch table.
func NewTable(name string) *Table {
	return &Table{Name: name, entries: make(map[uint32]*ParseNode)}
}

// Set adds or overwrites the entry for key.
func (t *Table) Set(key uint32, n *ParseNode) {
	if _, exists := t.entries[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = n
}

// SetWildcard declares the fallback node consulted on a table miss.
func (t *Table) SetWildcard(n *ParseNode) {
	t.wildcard = n
}

// Lookup resolves key, falling back to the wildcard if declared.
func (t *Table) Lookup(key uint32) (*ParseNode, bool) {
	if n, ok := t.entries[key]; ok {
		return n, true
	}
	if t.wildcard != nil {
		return t.wildcard, true
	}
	return nil, false
}

// Keys returns the table's discriminators in insertion order, for the
// code generator and Graphviz dumper.
func (t *Table) Keys() []uint32 {
	return t.keys
}

// Wildcard returns the table's fallback node, if declared.
func (t *Table) Wildcard() (*ParseNode, bool) {
	return t.wildcard, t.wildcard != nil
}

// TLVTable is the TLV analogue of Table (spec.md §3, §4.4 step 4).
type TLVTable struct {
	Name     string
	entries  map[uint32]*TlvNode
	keys     []uint32
	wildcard *TlvNode
}

// NewTLVTable returns an empty TLV dispatch table.
func NewTLVTable(name string) *TLVTable {
	return &TLVTable{Name: name, entries: make(map[uint32]*TlvNode)}
}

// Set adds or overwrites the entry for a TLV type.
func (t *TLVTable) Set(typ uint32, n *TlvNode) {
	if _, exists := t.entries[typ]; !exists {
		t.keys = append(t.keys, typ)
	}
	t.entries[typ] = n
}

// SetWildcard declares the fallback TLV node consulted on a miss.
func (t *TLVTable) SetWildcard(n *TlvNode) {
	t.wildcard = n
}

// Lookup resolves a TLV type, falling back to the wildcard if declared.
func (t *TLVTable) Lookup(typ uint32) (*TlvNode, bool) {
	if n, ok := t.entries[typ]; ok {
		return n, true
	}
	if t.wildcard != nil {
		return t.wildcard, true
	}
	return nil, false
}

// Keys returns the TLV table's discriminators in insertion order.
func (t *TLVTable) Keys() []uint32 {
	return t.keys
}

// ParseNode is ProtoNode plus the callbacks and tables spec.md §3 defines
// for "ParseNode": a vertex in the parse graph.
type ParseNode struct {
	Name    string
	Proto   *proto.ProtoNode
	Extract proto.ExtractFunc
	Handle  proto.HandleFunc

	Table              *Table
	UnknownProtoPolicy UnknownProtoPolicy

	// TLV sub-walk, present only on TLV-bearing nodes (MAKE_TLVS_* /
	// MAKE_LEAF_TLVS_* forms).
	TLVTable    *TLVTable
	TLVFrame    TLVFrameFunc
	TLVOffset   int
	UnknownTLVPolicy UnknownProtoPolicy // only PolicyUnknownProto/PolicyStopOkay are meaningful here
}

// IsLeaf reports whether the node has no dispatch table (spec.md §3
// invariant 4: "A leaf node has no next_proto, no table").
func (n *ParseNode) IsLeaf() bool {
	return n.Table == nil
}

// HasTLVs reports whether the node carries a TLV sub-walk.
func (n *ParseNode) HasTLVs() bool {
	return n.TLVTable != nil
}

// Root binds a named entry point to a vertex (spec.md §6.1 PARSER_ADD /
// PARSER).
type Root struct {
	Name string
	Desc string
	Node *ParseNode
}

// Edge is a resolved dispatch-table entry, kept on Graph for the
// Graphviz dumper and the advisory cycle report.
type Edge struct {
	From, To string
	Key      uint32
	TLV      bool
	Back     bool // true if this edge was found to close a cycle during DFS
}

// Graph is the fully built, immutable parse graph (spec.md §3
// "Lifecycles": "nodes are static... the graph is built once from
// declarations and never mutated afterward").
type Graph struct {
	Nodes map[string]*ParseNode
	Roots map[string]*Root
	Edges []Edge
}

// BackEdges returns the subset of Edges found to close a cycle, the
// advisory report spec.md §4.3 step 7 asks the builder to produce.
func (g *Graph) BackEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Back {
			out = append(out, e)
		}
	}
	return out
}
