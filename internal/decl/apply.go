package decl

import (
	"fmt"

	"github.com/gopanda/panda/internal/graph"
	"github.com/gopanda/panda/internal/proto"
)

// Env resolves the bare identifiers a declaration source names — protocol
// nodes, extractors, handlers, check_length functions, TLV framers, and
// named integer constants — to the Go values the generated graph needs.
// original_source/main.cpp never needed this: its identifiers were real C
// symbols the preprocessor's symbol table already knew. A text front end
// has no linker, so the caller supplies the symbol table instead.
//
// MAKE_LEAF_TLVS_PARSE_NODE and MAKE_TLVS_PARSE_NODE take two arguments
// beyond the five original_source/main.cpp's macro list documents (frame,
// tlv_offset): the original's per-protocol C code-generation template
// encoded the TLV framing function and option-area offset implicitly per
// protocol; this text grammar has no such template to fall back on, so it
// names them explicitly. Documented extension, not a silent deviation.
type Env struct {
	Protos     map[string]*proto.ProtoNode
	Extractors map[string]proto.ExtractFunc
	Handlers   map[string]proto.HandleFunc
	CheckLens  map[string]graph.CheckLengthFunc
	TLVFrames  map[string]graph.TLVFrameFunc
	Consts     map[string]uint32
}

func (e *Env) proto(name string) (*proto.ProtoNode, error) {
	pn, ok := e.Protos[name]
	if !ok {
		return nil, fmt.Errorf("decl: undefined proto node %q", name)
	}
	return pn, nil
}

func (e *Env) extract(a Arg) (proto.ExtractFunc, error) {
	if a.IsWildcard() {
		return nil, nil
	}
	fn, ok := e.Extractors[a.Ident]
	if !ok {
		return nil, fmt.Errorf("decl: undefined extractor %q", a.Ident)
	}
	return fn, nil
}

func (e *Env) handle(a Arg) (proto.HandleFunc, error) {
	if a.IsWildcard() {
		return nil, nil
	}
	fn, ok := e.Handlers[a.Ident]
	if !ok {
		return nil, fmt.Errorf("decl: undefined handler %q", a.Ident)
	}
	return fn, nil
}

func (e *Env) checkLen(a Arg) (graph.CheckLengthFunc, error) {
	if a.IsWildcard() {
		return nil, nil
	}
	fn, ok := e.CheckLens[a.Ident]
	if !ok {
		return nil, fmt.Errorf("decl: undefined check_length %q", a.Ident)
	}
	return fn, nil
}

func (e *Env) tlvFrame(a Arg) (graph.TLVFrameFunc, error) {
	fn, ok := e.TLVFrames[a.Ident]
	if !ok {
		return nil, fmt.Errorf("decl: undefined tlv frame function %q", a.Ident)
	}
	return fn, nil
}

// key resolves a table-entry key argument: a bare wildcard identifier, a
// named constant, or a numeric literal.
func (e *Env) key(a Arg) (value uint32, wildcard bool, err error) {
	if a.IsWildcard() {
		return 0, true, nil
	}
	switch a.Kind {
	case ArgNumber:
		return uint32(a.Num), false, nil
	case ArgIdent:
		v, ok := e.Consts[a.Ident]
		if !ok {
			return 0, false, fmt.Errorf("decl: undefined constant %q", a.Ident)
		}
		return v, false, nil
	default:
		return 0, false, fmt.Errorf("decl: table-entry key must be a number or identifier")
	}
}

func ident(a Arg) string { return a.Ident }

// Apply replays a parsed Program's calls against a graph.Builder, the step
// original_source/main.cpp's context iteration performs implicitly as
// Boost.Wave expands each macro in source order. Returns the first error
// encountered; Build()'s own diagnostics surface separately once Apply
// finishes and the caller calls b.Build().
func Apply(b *graph.Builder, env *Env, prog *Program) error {
	for _, call := range prog.Calls {
		if err := applyCall(b, env, call); err != nil {
			return fmt.Errorf("line %d: %w", call.Line, err)
		}
	}
	return nil
}

func applyCall(b *graph.Builder, env *Env, call Call) error {
	switch call.Form {
	case "DECL_PARSE_NODE":
		if len(call.Args) != 1 {
			return fmt.Errorf("DECL_PARSE_NODE takes 1 argument, got %d", len(call.Args))
		}
		b.DeclParseNode(ident(call.Args[0]))
		return nil

	case "DECL_TLVS_PARSE_NODE":
		if len(call.Args) != 1 {
			return fmt.Errorf("DECL_TLVS_PARSE_NODE takes 1 argument, got %d", len(call.Args))
		}
		b.DeclTLVParseNode(ident(call.Args[0]))
		return nil

	case "MAKE_PARSE_NODE":
		if len(call.Args) != 5 {
			return fmt.Errorf("MAKE_PARSE_NODE takes 5 arguments, got %d", len(call.Args))
		}
		pn, err := env.proto(ident(call.Args[1]))
		if err != nil {
			return err
		}
		extract, err := env.extract(call.Args[2])
		if err != nil {
			return err
		}
		handle, err := env.handle(call.Args[3])
		if err != nil {
			return err
		}
		b.MakeParseNode(ident(call.Args[0]), pn, extract, handle, ident(call.Args[4]))
		return nil

	case "MAKE_LEAF_PARSE_NODE":
		if len(call.Args) != 4 {
			return fmt.Errorf("MAKE_LEAF_PARSE_NODE takes 4 arguments, got %d", len(call.Args))
		}
		pn, err := env.proto(ident(call.Args[1]))
		if err != nil {
			return err
		}
		extract, err := env.extract(call.Args[2])
		if err != nil {
			return err
		}
		handle, err := env.handle(call.Args[3])
		if err != nil {
			return err
		}
		b.MakeLeafParseNode(ident(call.Args[0]), pn, extract, handle)
		return nil

	case "MAKE_LEAF_TLVS_PARSE_NODE":
		if len(call.Args) != 7 {
			return fmt.Errorf("MAKE_LEAF_TLVS_PARSE_NODE takes 7 arguments (name, proto, extract, handle, frame, tlv_offset, tlv_table), got %d", len(call.Args))
		}
		pn, err := env.proto(ident(call.Args[1]))
		if err != nil {
			return err
		}
		extract, err := env.extract(call.Args[2])
		if err != nil {
			return err
		}
		handle, err := env.handle(call.Args[3])
		if err != nil {
			return err
		}
		frame, err := env.tlvFrame(call.Args[4])
		if err != nil {
			return err
		}
		offset, err := requireNumber(call.Args[5])
		if err != nil {
			return err
		}
		b.MakeLeafTLVParseNode(ident(call.Args[0]), pn, extract, handle, frame, int(offset), ident(call.Args[6]))
		return nil

	case "MAKE_TLVS_PARSE_NODE":
		if len(call.Args) != 8 {
			return fmt.Errorf("MAKE_TLVS_PARSE_NODE takes 8 arguments (name, proto, extract, handle, frame, tlv_offset, tlv_table, table), got %d", len(call.Args))
		}
		pn, err := env.proto(ident(call.Args[1]))
		if err != nil {
			return err
		}
		extract, err := env.extract(call.Args[2])
		if err != nil {
			return err
		}
		handle, err := env.handle(call.Args[3])
		if err != nil {
			return err
		}
		frame, err := env.tlvFrame(call.Args[4])
		if err != nil {
			return err
		}
		offset, err := requireNumber(call.Args[5])
		if err != nil {
			return err
		}
		b.MakeTLVSParseNode(ident(call.Args[0]), pn, extract, handle, frame, int(offset), ident(call.Args[6]), ident(call.Args[7]))
		return nil

	case "MAKE_TLV_PARSE_NODE":
		if len(call.Args) != 5 {
			return fmt.Errorf("MAKE_TLV_PARSE_NODE takes 5 arguments, got %d", len(call.Args))
		}
		typ, _, err := env.key(call.Args[1])
		if err != nil {
			return err
		}
		checkLen, err := env.checkLen(call.Args[2])
		if err != nil {
			return err
		}
		extract, err := env.extract(call.Args[3])
		if err != nil {
			return err
		}
		handle, err := env.handle(call.Args[4])
		if err != nil {
			return err
		}
		b.MakeTLVParseNode(ident(call.Args[0]), typ, checkLen, extract, handle)
		return nil

	case "MAKE_PROTO_TABLE":
		if len(call.Args) < 1 {
			return fmt.Errorf("MAKE_PROTO_TABLE takes a name and zero or more entries")
		}
		entries, err := tableEntries(env, call.Args[1:])
		if err != nil {
			return err
		}
		b.MakeProtoTable(ident(call.Args[0]), entries...)
		return nil

	case "MAKE_TLV_TABLE":
		if len(call.Args) < 1 {
			return fmt.Errorf("MAKE_TLV_TABLE takes a name and zero or more entries")
		}
		entries, err := tlvTableEntries(env, call.Args[1:])
		if err != nil {
			return err
		}
		b.MakeTLVTable(ident(call.Args[0]), entries...)
		return nil

	case "PARSER_ADD":
		if len(call.Args) != 3 {
			return fmt.Errorf("PARSER_ADD takes 3 arguments, got %d", len(call.Args))
		}
		b.ParserAdd(ident(call.Args[0]), call.Args[1].Str, ident(call.Args[2]))
		return nil

	case "PARSER":
		if len(call.Args) != 3 {
			return fmt.Errorf("PARSER takes 3 arguments, got %d", len(call.Args))
		}
		b.ParserAdd(ident(call.Args[0]), call.Args[1].Str, ident(call.Args[2]))
		return nil

	default:
		return fmt.Errorf("unrecognized form %q", call.Form)
	}
}

func requireNumber(a Arg) (uint64, error) {
	if a.Kind != ArgNumber {
		return 0, fmt.Errorf("expected a numeric literal, got %q", a.Ident)
	}
	return a.Num, nil
}

func tableEntries(env *Env, args []Arg) ([]graph.TableEntrySpec, error) {
	out := make([]graph.TableEntrySpec, 0, len(args))
	for _, a := range args {
		if a.Kind != ArgEntry {
			return nil, fmt.Errorf("MAKE_PROTO_TABLE entries must be {key, target} pairs")
		}
		key, wildcard, err := env.key(*a.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, graph.TableEntrySpec{Key: key, Target: ident(*a.Target), Wildcard: wildcard})
	}
	return out, nil
}

func tlvTableEntries(env *Env, args []Arg) ([]graph.TLVEntrySpec, error) {
	out := make([]graph.TLVEntrySpec, 0, len(args))
	for _, a := range args {
		if a.Kind != ArgEntry {
			return nil, fmt.Errorf("MAKE_TLV_TABLE entries must be {type, target} pairs")
		}
		typ, wildcard, err := env.key(*a.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, graph.TLVEntrySpec{Type: typ, Target: ident(*a.Target), Wildcard: wildcard})
	}
	return out, nil
}
