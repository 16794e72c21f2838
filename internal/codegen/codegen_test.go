package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/proto"
)

func tinyGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	b.MakeProtoTable("root_table",
		graph.TableEntrySpec{Key: 4, Target: "v4"},
		graph.TableEntrySpec{Target: "other", Wildcard: true},
	)
	b.MakeParseNode("root", &proto.ProtoNode{Name: "root", MinLen: 1,
		NextProto: func(hdr []byte) uint32 { return uint32(hdr[0]) }}, nil, nil, "root_table")
	b.MakeLeafParseNode("v4", &proto.ProtoNode{Name: "v4", MinLen: 1}, nil, nil)
	b.MakeLeafParseNode("other", &proto.ProtoNode{Name: "other", MinLen: 1}, nil, nil)
	b.ParserAdd("root", "tiny test parser", "root")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestGenerateProducesCompilableLookingSource(t *testing.T) {
	g := tinyGraph(t)
	src, err := Generate(g, Options{Package: "generated"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	s := string(src)

	for _, want := range []string{
		"package generated",
		"func walk_root(",
		"func walk_v4(",
		"func walk_other(",
		"func Parse_root(",
		"case 4:",
		"var Nodes map[string]*graph.ParseNode",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("generated source missing %q\n--- source ---\n%s", want, s)
		}
	}
}

func TestGenerateDefaultsPackageName(t *testing.T) {
	g := tinyGraph(t)
	src, err := Generate(g, Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(string(src), "package generated") {
		t.Errorf("expected default package name %q in output", "generated")
	}
}

func TestGenerateWildcardFallsThroughDefaultCase(t *testing.T) {
	g := tinyGraph(t)
	src, err := Generate(g, Options{Package: "generated"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	s := string(src)
	if !strings.Contains(s, "walk_other") {
		t.Fatalf("expected wildcard target walk_other to appear in generated source")
	}
}

// TestGeneratedSwitchMatchesTableDispatch parses the generated source and
// checks that walk_root's static switch dispatches on exactly the same
// keys, to exactly the same targets, as root's graph.Table — the
// structural half of spec.md §8 Invariant 5 ("Interpreter ≡ Generated")
// that doesn't require actually compiling and running the generated code.
func TestGeneratedSwitchMatchesTableDispatch(t *testing.T) {
	g := tinyGraph(t)
	src, err := Generate(g, Options{Package: "generated"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "generated.go", src, 0)
	if err != nil {
		t.Fatalf("generated source failed to parse: %v\n--- source ---\n%s", err, src)
	}

	cases, wildcard := extractSwitchDispatch(t, file, funcName("root"))

	root := g.Nodes["root"]
	for _, key := range root.Table.Keys() {
		target, _ := root.Table.Lookup(key)
		want := funcName(target.Name)
		got, ok := cases[key]
		if !ok {
			t.Errorf("generated switch has no case for key %d (table dispatches to %s)", key, want)
			continue
		}
		if got != want {
			t.Errorf("case %d dispatches to %s, table dispatches to %s", key, got, want)
		}
	}
	if len(cases) != len(root.Table.Keys()) {
		t.Errorf("generated switch has %d cases, table has %d keys", len(cases), len(root.Table.Keys()))
	}

	wantTarget, hasWildcard := root.Table.Wildcard()
	if hasWildcard {
		if wildcard != funcName(wantTarget.Name) {
			t.Errorf("default case dispatches to %q, table wildcard dispatches to %s", wildcard, funcName(wantTarget.Name))
		}
	}
}

// extractSwitchDispatch walks fnName's body for the dispatch switch emitted
// by fileTemplate, returning the case-key -> target-function map and the
// default case's target function name (empty if the default isn't a
// wildcard tail call).
func extractSwitchDispatch(t *testing.T, file *ast.File, fnName string) (cases map[uint32]string, wildcardTarget string) {
	t.Helper()
	cases = make(map[uint32]string)

	var fn *ast.FuncDecl
	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Name.Name == fnName {
			fn = fd
			break
		}
	}
	if fn == nil {
		t.Fatalf("generated source has no function %q", fnName)
	}

	var sw *ast.SwitchStmt
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		if s, ok := n.(*ast.SwitchStmt); ok {
			sw = s
			return false
		}
		return true
	})
	if sw == nil {
		t.Fatalf("function %q has no dispatch switch", fnName)
	}

	for _, stmt := range sw.Body.List {
		clause := stmt.(*ast.CaseClause)
		target := tailCallTarget(clause.Body)
		if clause.List == nil {
			wildcardTarget = target
			continue
		}
		for _, expr := range clause.List {
			lit, ok := expr.(*ast.BasicLit)
			if !ok || lit.Kind != token.INT {
				t.Fatalf("case value %#v is not an integer literal", expr)
			}
			key, err := strconv.ParseUint(lit.Value, 0, 32)
			if err != nil {
				t.Fatalf("case value %q: %v", lit.Value, err)
			}
			cases[uint32(key)] = target
		}
	}
	return cases, wildcardTarget
}

// tailCallTarget returns the generated function name passed as
// advanceAndContinue's last argument in a case body's return statement, or
// "" if the case body doesn't tail-call (e.g. a bare UnknownProtoPolicy
// resolution).
func tailCallTarget(body []ast.Stmt) string {
	for _, stmt := range body {
		ret, ok := stmt.(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			continue
		}
		call, ok := ret.Results[0].(*ast.CallExpr)
		if !ok || len(call.Args) == 0 {
			continue
		}
		if ident, ok := call.Args[len(call.Args)-1].(*ast.Ident); ok {
			return ident.Name
		}
	}
	return ""
}

func TestDOTMarksBackEdgesAndRoots(t *testing.T) {
	b := graph.NewBuilder()
	b.MakeProtoTable("t", graph.TableEntrySpec{Key: 1, Target: "b"})
	b.MakeProtoTable("u", graph.TableEntrySpec{Key: 1, Target: "a"}) // cycle a -> b -> a
	b.MakeParseNode("a", &proto.ProtoNode{Name: "a", MinLen: 1}, nil, nil, "t")
	b.MakeParseNode("b", &proto.ProtoNode{Name: "b", MinLen: 1}, nil, nil, "u")
	b.ParserAdd("a", "cyclic test parser", "a")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	out := string(DOT(g))
	if !strings.Contains(out, "digraph panda") {
		t.Fatalf("DOT output missing digraph header:\n%s", out)
	}
	if !strings.Contains(out, "style=dashed, color=red") {
		t.Errorf("expected a dashed/red back-edge in DOT output:\n%s", out)
	}
	if !strings.Contains(out, "entry_a") {
		t.Errorf("expected a root entry node in DOT output:\n%s", out)
	}
}
