package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gopanda/panda/internal/graph"
)

// DOT renders g as Graphviz source, grounded on original_source/main.cpp's
// dotify call (the -o foo.dot output path) and its back_edges report: edges
// closing a cycle are drawn dashed and red instead of being omitted, since
// spec.md §4.3 treats a cycle (GRE-in-IP, IP-in-IP tunneling) as a legitimate
// graph shape, not a build error.
func DOT(g *graph.Graph) []byte {
	var b strings.Builder
	b.WriteString("digraph panda {\n")
	b.WriteString("\trankdir=LR;\n")
	b.WriteString("\tnode [shape=box, fontname=\"monospace\"];\n")

	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := g.Nodes[name]
		shape := "box"
		if n.IsLeaf() {
			shape = "box, peripheries=2"
		}
		fmt.Fprintf(&b, "\t%q [shape=%s];\n", name, shape)
	}

	rootNames := make([]string, 0, len(g.Roots))
	for name := range g.Roots {
		rootNames = append(rootNames, name)
	}
	sort.Strings(rootNames)
	for _, name := range rootNames {
		r := g.Roots[name]
		entry := "entry_" + name
		fmt.Fprintf(&b, "\t%q [shape=ellipse, style=filled, fillcolor=lightgray, label=%q];\n", entry, name+"\\n"+r.Desc)
		fmt.Fprintf(&b, "\t%q -> %q;\n", entry, r.Node.Name)
	}

	for _, e := range g.Edges {
		attrs := fmt.Sprintf("label=%q", fmt.Sprintf("0x%x", e.Key))
		if e.TLV {
			attrs += ", color=blue"
		}
		if e.Back {
			attrs += ", style=dashed, color=red"
		}
		fmt.Fprintf(&b, "\t%q -> %q [%s];\n", e.From, e.To, attrs)
	}

	b.WriteString("}\n")
	return []byte(b.String())
}
