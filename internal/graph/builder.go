package graph

import (
	"errors"
	"fmt"

	"github.com/gopanda/panda/internal/proto"
)

// BuildErrorKind classifies a Builder diagnostic (spec.md §4.3, §7
// "Builder errors... abort build-time with a diagnostic").
type BuildErrorKind int

const (
	ErrRedeclared BuildErrorKind = iota
	ErrUnresolvedRef
	ErrUndefined
)

// BuildError carries a diagnostic's kind, the name it concerns, and a
// human-readable detail. It carries no declaration source location: Name
// is the node, table or root name only. internal/decl prefixes its own
// declaration errors with the source line, but errors returned from Build
// reach the caller without one.
type BuildError struct {
	Kind   BuildErrorKind
	Name   string
	Detail string
}

func (e *BuildError) Error() string {
	switch e.Kind {
	case ErrRedeclared:
		return fmt.Sprintf("graph: %q redeclared: %s", e.Name, e.Detail)
	case ErrUnresolvedRef:
		return fmt.Sprintf("graph: unresolved reference to %q: %s", e.Name, e.Detail)
	default:
		return fmt.Sprintf("graph: %q undefined: %s", e.Name, e.Detail)
	}
}

type declSlot struct {
	name    string
	tlv     bool
	defined bool
	node    *ParseNode
}

// TableEntrySpec is one (key, target-name) pair passed to MakeProtoTable,
// resolved against declared node names in Build's connect phase.
type TableEntrySpec struct {
	Key      uint32
	Target   string
	Wildcard bool
}

// TLVEntrySpec is the TLV-table analogue of TableEntrySpec.
type TLVEntrySpec struct {
	Type     uint32
	Target   string
	Wildcard bool
}

type tableDecl struct {
	name    string
	entries []TableEntrySpec
}

type tlvTableDecl struct {
	name    string
	entries []TLVEntrySpec
}

type rootSpec struct {
	name, desc, nodeName string
}

// Builder implements spec.md §4.3's declare → define → tables → connect →
// TLV linkage → root registration → cycle detection pipeline. Each
// exported method corresponds to one declaration form from §6.1; Build
// runs the remaining phases and returns the finished Graph.
type Builder struct {
	slots        map[string]*declSlot
	order        []string
	tables       map[string]*tableDecl
	tlvTables    map[string]*tlvTableDecl
	tlvNodes     map[string]*TlvNode
	roots        map[string]*rootSpec
	rootOrder    []string
	errs         []error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		slots:     make(map[string]*declSlot),
		tables:    make(map[string]*tableDecl),
		tlvTables: make(map[string]*tlvTableDecl),
		tlvNodes:  make(map[string]*TlvNode),
		roots:     make(map[string]*rootSpec),
	}
}

func (b *Builder) declare(name string, tlv bool) {
	if existing, ok := b.slots[name]; ok {
		b.errs = append(b.errs, &BuildError{Kind: ErrRedeclared, Name: name,
			Detail: fmt.Sprintf("already declared (tlv=%v)", existing.tlv)})
		return
	}
	b.slots[name] = &declSlot{name: name, tlv: tlv}
	b.order = append(b.order, name)
}

// DeclParseNode forward-declares a parse node (§6.1 DECL_PARSE_NODE).
func (b *Builder) DeclParseNode(name string) { b.declare(name, false) }

// DeclTLVParseNode forward-declares a TLV-bearing parse node (§6.1
// DECL_TLVS_PARSE_NODE).
func (b *Builder) DeclTLVParseNode(name string) { b.declare(name, true) }

func (b *Builder) slotFor(name string) *declSlot {
	s, ok := b.slots[name]
	if !ok {
		// MAKE_* forms are permitted to implicitly declare when the name
		// hasn't been forward-declared, matching parser_big.c's usage
		// where most nodes go straight to MAKE_PARSE_NODE.
		s = &declSlot{name: name}
		b.slots[name] = s
		b.order = append(b.order, name)
	}
	return s
}

func (b *Builder) define(name string, n *ParseNode) {
	s := b.slotFor(name)
	if s.defined {
		b.errs = append(b.errs, &BuildError{Kind: ErrRedeclared, Name: name, Detail: "already defined"})
		return
	}
	s.defined = true
	n.Name = name
	s.node = n
}

// MakeParseNode defines a non-leaf parse node dispatching through the
// named table (§6.1 MAKE_PARSE_NODE). tableName is resolved in Build.
func (b *Builder) MakeParseNode(name string, pn *proto.ProtoNode, extract proto.ExtractFunc, handle proto.HandleFunc, tableName string) {
	n := &ParseNode{Proto: pn, Extract: extract, Handle: handle, Table: NewTable(tableName)}
	b.define(name, n)
}

// MakeLeafParseNode defines a leaf parse node with no dispatch table
// (§6.1 MAKE_LEAF_PARSE_NODE).
func (b *Builder) MakeLeafParseNode(name string, pn *proto.ProtoNode, extract proto.ExtractFunc, handle proto.HandleFunc) {
	n := &ParseNode{Proto: pn, Extract: extract, Handle: handle}
	b.define(name, n)
}

// MakeLeafTLVParseNode defines a leaf that carries a TLV sub-walk but no
// further protocol dispatch (§6.1 MAKE_LEAF_TLVS_PARSE_NODE) — TCP is the
// canonical example.
func (b *Builder) MakeLeafTLVParseNode(name string, pn *proto.ProtoNode, extract proto.ExtractFunc, handle proto.HandleFunc, frame TLVFrameFunc, tlvOffset int, tlvTableName string) {
	n := &ParseNode{
		Proto:     pn,
		Extract:   extract,
		Handle:    handle,
		TLVTable:  NewTLVTable(tlvTableName),
		TLVFrame:  frame,
		TLVOffset: tlvOffset,
	}
	b.define(name, n)
}

// MakeTLVSParseNode defines a parse node that carries both a TLV
// sub-walk and further protocol dispatch (the general MAKE_TLVS_PARSE_NODE
// form referenced in spec.md §9's macro-expansion note).
func (b *Builder) MakeTLVSParseNode(name string, pn *proto.ProtoNode, extract proto.ExtractFunc, handle proto.HandleFunc, frame TLVFrameFunc, tlvOffset int, tlvTableName, tableName string) {
	n := &ParseNode{
		Proto:     pn,
		Extract:   extract,
		Handle:    handle,
		Table:     NewTable(tableName),
		TLVTable:  NewTLVTable(tlvTableName),
		TLVFrame:  frame,
		TLVOffset: tlvOffset,
	}
	b.define(name, n)
}

// MakeTLVParseNode defines a named TLV sub-parser for use as a
// MakeTLVTable entry target (§6.1 MAKE_TLV_PARSE_NODE).
func (b *Builder) MakeTLVParseNode(name string, typ uint32, checkLen CheckLengthFunc, extract proto.ExtractFunc, handle proto.HandleFunc) {
	if _, exists := b.tlvNodes[name]; exists {
		b.errs = append(b.errs, &BuildError{Kind: ErrRedeclared, Name: name, Detail: "tlv node already defined"})
		return
	}
	b.tlvNodes[name] = &TlvNode{Name: name, Type: typ, CheckLength: checkLen, Extract: extract, Handle: handle}
}

// SetUnknownProtoPolicy overrides a defined node's table-miss policy
// (default PolicyUnknownProto). Must be called after the node is defined.
func (b *Builder) SetUnknownProtoPolicy(name string, policy UnknownProtoPolicy) {
	s, ok := b.slots[name]
	if !ok || s.node == nil {
		b.errs = append(b.errs, &BuildError{Kind: ErrUndefined, Name: name, Detail: "set policy on undefined node"})
		return
	}
	s.node.UnknownProtoPolicy = policy
}

// SetUnknownTLVPolicy overrides a defined node's TLV-table-miss policy.
func (b *Builder) SetUnknownTLVPolicy(name string, policy UnknownProtoPolicy) {
	s, ok := b.slots[name]
	if !ok || s.node == nil {
		b.errs = append(b.errs, &BuildError{Kind: ErrUndefined, Name: name, Detail: "set tlv policy on undefined node"})
		return
	}
	s.node.UnknownTLVPolicy = policy
}

// MakeProtoTable defines a dispatch table by name (§6.1
// MAKE_PROTO_TABLE). Target names are resolved in Build's connect phase.
func (b *Builder) MakeProtoTable(name string, entries ...TableEntrySpec) {
	if _, exists := b.tables[name]; exists {
		b.errs = append(b.errs, &BuildError{Kind: ErrRedeclared, Name: name, Detail: "table already defined"})
		return
	}
	b.tables[name] = &tableDecl{name: name, entries: entries}
}

// MakeTLVTable defines a TLV dispatch table by name (§6.1
// MAKE_TLV_TABLE).
func (b *Builder) MakeTLVTable(name string, entries ...TLVEntrySpec) {
	if _, exists := b.tlvTables[name]; exists {
		b.errs = append(b.errs, &BuildError{Kind: ErrRedeclared, Name: name, Detail: "tlv table already defined"})
		return
	}
	b.tlvTables[name] = &tlvTableDecl{name: name, entries: entries}
}

// ParserAdd registers a named root bound to a defined vertex (§6.1
// PARSER_ADD / PARSER).
func (b *Builder) ParserAdd(name, desc, rootNodeName string) {
	if _, exists := b.roots[name]; exists {
		b.errs = append(b.errs, &BuildError{Kind: ErrRedeclared, Name: name, Detail: "root already registered"})
		return
	}
	b.roots[name] = &rootSpec{name: name, desc: desc, nodeName: rootNodeName}
	b.rootOrder = append(b.rootOrder, name)
}

// Build runs the connect, TLV-linkage, root-registration, and
// cycle-detection phases (§4.3 steps 4–7) and returns the finished graph,
// or every accumulated BuildError joined together.
func (b *Builder) Build() (*Graph, error) {
	errs := append([]error(nil), b.errs...)

	// Step 2 check: every declared node must eventually be defined.
	for _, name := range b.order {
		s := b.slots[name]
		if !s.defined {
			errs = append(errs, &BuildError{Kind: ErrUndefined, Name: name, Detail: "declared but never defined"})
		}
	}

	g := &Graph{Nodes: make(map[string]*ParseNode), Roots: make(map[string]*Root)}
	for _, name := range b.order {
		if s := b.slots[name]; s.node != nil {
			g.Nodes[name] = s.node
		}
	}

	// Step 4: connect proto tables. A table name may be shared by several
	// nodes (e.g. the IP next-header table is reused by ipv4, ipv6, and
	// every IPv6 extension header), so every owner gets the same resolved
	// *Table and its own set of edges.
	for _, name := range sortedTableNames(b.tables) {
		td := b.tables[name]
		owners := b.findOwnersByTableName(name)
		t := NewTable(name)
		for _, e := range td.entries {
			target, ok := g.Nodes[e.Target]
			if !ok {
				errs = append(errs, &BuildError{Kind: ErrUnresolvedRef, Name: e.Target,
					Detail: fmt.Sprintf("referenced from table %q", name)})
				continue
			}
			if e.Wildcard {
				t.SetWildcard(target)
			} else {
				t.Set(e.Key, target)
			}
			for _, owner := range owners {
				g.Edges = append(g.Edges, Edge{From: owner, To: e.Target, Key: e.Key})
			}
		}
		for _, owner := range owners {
			g.Nodes[owner].Table = t
		}
	}

	// Step 5: TLV linkage.
	for _, name := range sortedTLVTableNames(b.tlvTables) {
		td := b.tlvTables[name]
		owners := b.findOwnersByTLVTableName(name)
		t := NewTLVTable(name)
		for _, e := range td.entries {
			target, ok := b.tlvNodes[e.Target]
			if !ok {
				errs = append(errs, &BuildError{Kind: ErrUnresolvedRef, Name: e.Target,
					Detail: fmt.Sprintf("referenced from tlv table %q", name)})
				continue
			}
			if e.Wildcard {
				t.SetWildcard(target)
			} else {
				t.Set(e.Type, target)
			}
			for _, owner := range owners {
				g.Edges = append(g.Edges, Edge{From: owner, To: e.Target, Key: e.Type, TLV: true})
			}
		}
		for _, owner := range owners {
			g.Nodes[owner].TLVTable = t
		}
	}

	// Step 6: root registration.
	for _, name := range b.rootOrder {
		rs := b.roots[name]
		node, ok := g.Nodes[rs.nodeName]
		if !ok {
			errs = append(errs, &BuildError{Kind: ErrUnresolvedRef, Name: rs.nodeName,
				Detail: fmt.Sprintf("root %q names an undefined node", name)})
			continue
		}
		g.Roots[name] = &Root{Name: name, Desc: rs.desc, Node: node}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Step 7: cycle detection via DFS back-edges from each root. Cycles
	// are recorded, not rejected (spec.md §4.3 step 7, §9).
	markBackEdges(g)

	return g, nil
}

func (b *Builder) findOwnersByTableName(tableName string) []string {
	var owners []string
	for _, name := range b.order {
		if n := b.slots[name].node; n != nil && n.Table != nil && n.Table.Name == tableName {
			owners = append(owners, name)
		}
	}
	return owners
}

func (b *Builder) findOwnersByTLVTableName(tlvTableName string) []string {
	var owners []string
	for _, name := range b.order {
		if n := b.slots[name].node; n != nil && n.TLVTable != nil && n.TLVTable.Name == tlvTableName {
			owners = append(owners, name)
		}
	}
	return owners
}

func sortedTableNames(m map[string]*tableDecl) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Stable enough for deterministic builds without importing sort for a
	// handful of tables per graph; insertion order isn't tracked here
	// since tables may be declared before or after their owning node.
	insertionSort(out)
	return out
}

func sortedTLVTableNames(m map[string]*tlvTableDecl) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	insertionSort(out)
	return out
}

func insertionSort(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// markBackEdges performs a DFS from every root, marking edges that point
// to an ancestor already on the current path as back-edges (cycles).
func markBackEdges(g *Graph) {
	byFrom := make(map[string][]int) // node name -> indices into g.Edges
	for i, e := range g.Edges {
		if e.TLV {
			continue // TLV sub-graphs don't participate in encap cycles
		}
		byFrom[e.From] = append(byFrom[e.From], i)
	}

	onPath := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if onPath[name] {
			return
		}
		onPath[name] = true
		visited[name] = true
		for _, idx := range byFrom[name] {
			e := g.Edges[idx]
			if onPath[e.To] {
				g.Edges[idx].Back = true
				continue
			}
			if !visited[e.To] {
				visit(e.To)
			}
		}
		onPath[name] = false
	}

	for _, r := range g.Roots {
		visit(r.Node.Name)
	}
}
