package decl

import "fmt"

// ArgKind classifies one call argument.
type ArgKind int

const (
	ArgIdent ArgKind = iota
	ArgNumber
	ArgString
	ArgEntry // a {key, target} or {type, target} table-entry pair
)

// Arg is one argument to a declaration call. Entry arguments nest two
// further Args (Key and Target); every other kind is a leaf.
type Arg struct {
	Kind   ArgKind
	Ident  string
	Num    uint64
	Str    string
	Key    *Arg
	Target *Arg
}

// IsWildcard reports whether this Arg is the bare identifier `_`, the
// grammar's wildcard-key marker for MAKE_PROTO_TABLE/MAKE_TLV_TABLE entries
// and the no-op marker for an omitted extract/handle/check_length callback.
func (a Arg) IsWildcard() bool {
	return a.Kind == ArgIdent && a.Ident == "_"
}

// Call is one recognized top-level declaration (spec.md §6.1's eleven
// forms), the parser's equivalent of one
// expanding_function_like_macro invocation in original_source/main.cpp.
type Call struct {
	Form string
	Args []Arg
	Line int
}

// Program is a parsed declaration source file: an ordered list of calls,
// applied to a graph.Builder in the same order original_source/main.cpp's
// token stream iterator would visit them.
type Program struct {
	Calls []Call
}

// recognizedForms is the complete set from spec.md §6.1, named identically
// to original_source/main.cpp's add_panda_macros list, minus the PANDA_
// prefix (this front end isn't a C preprocessor, so the prefix that
// disambiguated macro names from ordinary identifiers in C serves no
// purpose here).
var recognizedForms = map[string]bool{
	"DECL_PARSE_NODE":          true,
	"DECL_TLVS_PARSE_NODE":     true,
	"MAKE_PROTO_TABLE":         true,
	"MAKE_TLV_TABLE":           true,
	"MAKE_TLV_PARSE_NODE":      true,
	"MAKE_PARSE_NODE":          true,
	"MAKE_TLVS_PARSE_NODE":     true,
	"MAKE_LEAF_PARSE_NODE":     true,
	"MAKE_LEAF_TLVS_PARSE_NODE": true,
	"PARSER_ADD":               true,
	"PARSER":                   true,
}

// Parser turns a token stream into a Program.
type Parser struct {
	lex *Lexer
	cur Token
}

// NewParser returns a Parser over src.
func NewParser(src string) (*Parser, error) {
	p := &Parser{lex: NewLexer(src)}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) next() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *Parser) expect(k TokenKind) (Token, error) {
	if p.cur.Kind != k {
		return Token{}, fmt.Errorf("decl: line %d: unexpected token %q", p.cur.Line, p.cur.String())
	}
	t := p.cur
	if err := p.next(); err != nil {
		return Token{}, err
	}
	return t, nil
}

// Parse consumes the whole token stream and returns the Program, or the
// first syntax error encountered.
func (p *Parser) Parse() (*Program, error) {
	prog := &Program{}
	for p.cur.Kind != TokEOF {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		if !recognizedForms[call.Form] {
			return nil, fmt.Errorf("decl: line %d: unrecognized form %q", call.Line, call.Form)
		}
		prog.Calls = append(prog.Calls, *call)
		if p.cur.Kind == TokSemi {
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	return prog, nil
}

func (p *Parser) parseCall() (*Call, error) {
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var args []Arg
	for p.cur.Kind != TokRParen {
		a, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur.Kind == TokComma {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return &Call{Form: name.Text, Args: args, Line: name.Line}, nil
}

func (p *Parser) parseArg() (Arg, error) {
	switch p.cur.Kind {
	case TokLBrace:
		return p.parseEntry()
	case TokIdent:
		t := p.cur
		if err := p.next(); err != nil {
			return Arg{}, err
		}
		return Arg{Kind: ArgIdent, Ident: t.Text}, nil
	case TokNumber:
		t := p.cur
		if err := p.next(); err != nil {
			return Arg{}, err
		}
		return Arg{Kind: ArgNumber, Num: t.Num}, nil
	case TokString:
		t := p.cur
		if err := p.next(); err != nil {
			return Arg{}, err
		}
		return Arg{Kind: ArgString, Str: t.Text}, nil
	default:
		return Arg{}, fmt.Errorf("decl: line %d: expected an argument, got %q", p.cur.Line, p.cur.String())
	}
}

func (p *Parser) parseEntry() (Arg, error) {
	if _, err := p.expect(TokLBrace); err != nil {
		return Arg{}, err
	}
	key, err := p.parseArg()
	if err != nil {
		return Arg{}, err
	}
	if _, err := p.expect(TokComma); err != nil {
		return Arg{}, err
	}
	target, err := p.parseArg()
	if err != nil {
		return Arg{}, err
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return Arg{}, err
	}
	k, t := key, target
	return Arg{Kind: ArgEntry, Key: &k, Target: &t}, nil
}
