// Package codegen is the specialized walker generator (component C6) and
// the Graphviz dumper (component C7). Grounded on
// original_source/main.cpp's generate_parsers/generate_root_parser (the
// per-vertex and per-root emission entry points) and
// original_source/c_def.template.c's per-node function shape: a length
// check, optional metadata/handler calls, a TLV loop, and a dispatch tail
// call into the next node's function — here expressed as a Go function per
// vertex in the graph that calls engine.RunNode/engine.Advance (the exact Go
// analogue of c_def.template.c's shared check_pkt_len/panda_parse_tlv/
// panda_encap_layer inline helpers) and ends in a direct call to the next
// vertex's generated function instead of the original's goto.
//
// The one respect in which this generator is not a literal C-to-Go port:
// a ParseNode's Extract/Handle/CheckLength/NextProto/Len fields are Go
// closures, not named C functions the preprocessor's symbol table can
// re-emit as source text. The generated code therefore still calls back
// into the live *graph.ParseNode for those callbacks (looked up once by
// name from the map the caller supplies) rather than inlining their
// bodies; what IS specialized away — the actual per-packet cost a real
// generator earns its keep by removing — is the dispatch step: each
// vertex's outgoing table lookup becomes a static Go switch over literal
// keys ending in direct calls, instead of a map probe into graph.Table at
// every hop.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"

	"github.com/gopanda/panda/internal/graph"
)

// Options configures one Generate call.
type Options struct {
	Package string // generated file's package name
}

type nodeView struct {
	Name     string
	Func     string
	IsLeaf   bool
	Cases    []caseView
	Wildcard string // generated function name of the wildcard target, "" if none
}

type caseView struct {
	Key    uint32
	Target string // generated function name
}

type rootView struct {
	Name     string
	NodeFunc string
	EntryFunc string
}

type templateData struct {
	Package string
	Nodes   []nodeView
	Roots   []rootView
}

const fileTemplate = `// Code generated by pandagen from a built graph.Graph. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/gopanda/panda/internal/engine"
	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/metadata"
	"github.com/gopanda/panda/internal/stopcode"
)

// Nodes must be populated with the built graph's node set (graph.Graph.Nodes)
// before calling any Parse<Root> entry point below; generated functions
// resolve their own ParseNode from this map once per call.
var Nodes map[string]*graph.ParseNode

type walkState struct {
	p          int
	overlayRun int
	encapDepth int
}

{{range .Nodes}}
func {{.Func}}(st walkState, bytes []byte, frame *metadata.Frame, limits engine.Limits, frames *metadata.FrameSet) stopcode.StopCode {
	node := Nodes["{{.Name}}"]
	outcome := engine.RunNode(node, st.p, bytes, frame, st.encapDepth, limits)
	if outcome.Stop {
		return outcome.SC
	}
{{if .IsLeaf}}	return stopcode.Okay
{{else}}	key := node.Proto.NextProto(outcome.Hdr)
	switch key {
{{range .Cases}}	case {{.Key}}:
		return advanceAndContinue(node, st, outcome.HLen, bytes, frames, limits, {{.Target}})
{{end}}	default:
{{if .Wildcard}}		return advanceAndContinue(node, st, outcome.HLen, bytes, frames, limits, {{.Wildcard}})
{{else}}		return node.UnknownProtoPolicy.Resolve()
{{end}}	}
{{end}}}
{{end}}

func advanceAndContinue(node *graph.ParseNode, st walkState, hlen int, bytes []byte, frames *metadata.FrameSet, limits engine.Limits, next func(walkState, []byte, *metadata.Frame, engine.Limits, *metadata.FrameSet) stopcode.StopCode) stopcode.StopCode {
	p, overlayRun, encapDepth, sc, ok := engine.Advance(node, st.p, hlen, st.overlayRun, st.encapDepth, frames, limits)
	if !ok {
		return sc
	}
	return next(walkState{p: p, overlayRun: overlayRun, encapDepth: encapDepth}, bytes, frames.Current(), limits, frames)
}

{{range .Roots}}
// {{.EntryFunc}} is the specialized entry point for root "{{.Name}}".
func {{.EntryFunc}}(bytes []byte, limits engine.Limits, frames *metadata.FrameSet) stopcode.StopCode {
	return {{.NodeFunc}}(walkState{}, bytes, frames.Current(), limits, frames)
}
{{end}}
`

// funcName turns a graph vertex name into an exported-looking Go
// identifier, e.g. "ipv6_frag" -> "walk_ipv6_frag". Kept snake_case (not
// PascalCase) deliberately: vertex names already read as protocol/table
// identifiers in internal/parsers/big.go, and renaming them case style
// would make the generated names harder to match back to the source graph.
func funcName(vertex string) string {
	return "walk_" + vertex
}

func entryFuncName(root string) string {
	return "Parse_" + root
}

// Generate emits gofmt'd Go source implementing a specialized walker for
// every node in g.Nodes, plus one exported entry point per root. Nodes are
// not filtered by reachability: a node that no root reaches still gets a
// function. The caller is responsible for assigning the generated package's
// Nodes variable to g.Nodes before invoking an entry point (codegen has no
// way to freeze Extract/Handle/Len closures into literal source — see the
// package doc comment).
func Generate(g *graph.Graph, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "generated"
	}

	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	data := templateData{Package: pkg}
	for _, name := range names {
		n := g.Nodes[name]
		nv := nodeView{Name: name, Func: funcName(name), IsLeaf: n.IsLeaf()}
		if !n.IsLeaf() {
			for _, key := range n.Table.Keys() {
				target, _ := n.Table.Lookup(key)
				nv.Cases = append(nv.Cases, caseView{Key: key, Target: funcName(target.Name)})
			}
			if wc, ok := n.Table.Wildcard(); ok {
				nv.Wildcard = funcName(wc.Name)
			}
		}
		data.Nodes = append(data.Nodes, nv)
	}

	rootNames := make([]string, 0, len(g.Roots))
	for name := range g.Roots {
		rootNames = append(rootNames, name)
	}
	sort.Strings(rootNames)
	for _, name := range rootNames {
		r := g.Roots[name]
		data.Roots = append(data.Roots, rootView{
			Name:      name,
			NodeFunc:  funcName(r.Node.Name),
			EntryFunc: entryFuncName(sanitizeIdent(name)),
		})
	}

	tmpl, err := template.New("generated").Parse(fileTemplate)
	if err != nil {
		return nil, fmt.Errorf("codegen: template parse: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("codegen: template exec: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: gofmt generated source: %w", err)
	}
	return formatted, nil
}

func sanitizeIdent(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return '_'
		}
		return r
	}, s)
}
