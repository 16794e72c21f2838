package decl

import (
	"testing"

	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/proto"
)

func TestLexerTokensAndComments(t *testing.T) {
	src := `MAKE_PARSE_NODE(n, p, _, _, t); // trailing comment
/* block
   comment */
PARSER_ADD(root, "a parser", n)`
	lex := NewLexer(src)
	var kinds []TokenKind
	for {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == TokEOF {
			break
		}
	}
	if kinds[0] != TokIdent {
		t.Fatalf("first token kind = %v, want TokIdent", kinds[0])
	}
}

func TestParserRecognizesAllForms(t *testing.T) {
	src := `
DECL_PARSE_NODE(a);
DECL_TLVS_PARSE_NODE(b);
MAKE_PROTO_TABLE(t1, {1, a}, {_, b});
MAKE_TLV_TABLE(t2, {0x02, tlv1});
MAKE_TLV_PARSE_NODE(tlv1, 2, _, _, _);
MAKE_PARSE_NODE(a, proto_a, _, _, t1);
MAKE_TLVS_PARSE_NODE(c, proto_c, _, _, frame1, 4, t2, t1);
MAKE_LEAF_PARSE_NODE(b, proto_b, _, _);
MAKE_LEAF_TLVS_PARSE_NODE(d, proto_d, _, _, frame1, 4, t2);
PARSER_ADD(root, "root parser", a);
PARSER(alt, "alt parser", b);
`
	p, err := NewParser(src)
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Calls) != 11 {
		t.Fatalf("len(Calls) = %d, want 11", len(prog.Calls))
	}
	if prog.Calls[2].Args[1].Key.IsWildcard() != false {
		t.Fatalf("t1 entry {1,a} key should not be wildcard")
	}
	if !prog.Calls[2].Args[2].Key.IsWildcard() {
		t.Fatalf("t1 entry {_,b} key should be wildcard")
	}
}

func TestParserRejectsUnrecognizedForm(t *testing.T) {
	p, err := NewParser(`BOGUS_FORM(x);`)
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	if _, err := p.Parse(); err == nil {
		t.Fatal("Parse() error = nil, want an unrecognized-form error")
	}
}

func TestApplyBuildsAWorkingGraph(t *testing.T) {
	src := `
MAKE_PROTO_TABLE(root_table, {1, leaf});
MAKE_PARSE_NODE(root, root_proto, _, _, root_table);
MAKE_LEAF_PARSE_NODE(leaf, leaf_proto, _, _);
PARSER_ADD(root, "test root", root);
`
	p, err := NewParser(src)
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	env := &Env{
		Protos: map[string]*proto.ProtoNode{
			"root_proto": {Name: "root", MinLen: 1, NextProto: func(hdr []byte) uint32 { return uint32(hdr[0]) }},
			"leaf_proto": {Name: "leaf", MinLen: 1},
		},
	}

	b := graph.NewBuilder()
	if err := Apply(b, env, prog); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := g.Roots["root"]; !ok {
		t.Fatal(`Roots["root"] missing`)
	}
	target, ok := g.Nodes["root"].Table.Lookup(1)
	if !ok || target.Name != "leaf" {
		t.Fatalf("root_table[1] = %v, want leaf", target)
	}
}

func TestApplyUndefinedProtoFails(t *testing.T) {
	src := `MAKE_LEAF_PARSE_NODE(leaf, nonexistent, _, _);`
	p, err := NewParser(src)
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b := graph.NewBuilder()
	if err := Apply(b, &Env{}, prog); err == nil {
		t.Fatal("Apply() error = nil, want undefined-proto error")
	}
}
