// Package parser implements the Pratt/recursive-descent front end
// (§4.4): it consumes a Token Mapper's astdb.Token stream and writes
// directly into an astdb.Unit's node and edge columns, resolving the
// struct-literal-vs-block, walrus-vs-type, slice-vs-index, and
// use-form ambiguities as it goes.
package parser

import (
	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/config"
	"github.com/lattice-lang/astcore/internal/diagnostics"
)

// MaxRecursionDepth bounds parseExpression's recursion, turning a
// pathological input into a diagnostic instead of a stack overflow.
const MaxRecursionDepth = 250

// declStartKinds is the token-kind set the error-recovery sweep
// synchronizes on (§4.4.4): the next plausible top-level declaration.
var declStartKinds = map[astdb.TokenKind]bool{
	astdb.TokFunc: true, astdb.TokLet: true, astdb.TokVar: true, astdb.TokConst: true,
	astdb.TokStruct: true, astdb.TokEnum: true, astdb.TokUnion: true, astdb.TokErrorKw: true,
	astdb.TokExtern: true, astdb.TokUse: true, astdb.TokUsing: true, astdb.TokImport: true,
	astdb.TokTest: true, astdb.TokPub: true,
}

// Parser holds the cursor over one Unit's token column plus a profile
// gate stack for the S0 restriction (§4.4.5). No parse production
// pushes or checks a gate, so no token is blocked.
type Parser struct {
	unit   *astdb.Unit
	tokens []astdb.Token
	pos    int // index of the current (not-yet-consumed) token

	profiles    *config.ProfileSet
	profileName string
	gateStack   []string

	depth               int
	inRecursionRecovery bool
}

// New returns a Parser over unit's already-populated token column,
// recording the named profile in profiles (profiles may be nil) for the
// gate helpers below.
func New(unit *astdb.Unit, profiles *config.ProfileSet, profileName string) *Parser {
	toks := make([]astdb.Token, 0, unit.TokenCount())
	for i := 0; i < unit.TokenCount(); i++ {
		toks = append(toks, unit.Token(astdb.TokenId(i)))
	}
	return &Parser{unit: unit, tokens: toks, profiles: profiles, profileName: profileName}
}

func (p *Parser) cur() astdb.Token {
	if p.pos >= len(p.tokens) {
		return astdb.Token{Kind: astdb.TokEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) curId() astdb.TokenId {
	if p.pos >= len(p.tokens) {
		return astdb.TokenId(len(p.tokens) - 1)
	}
	return astdb.TokenId(p.pos)
}

func (p *Parser) peek() astdb.Token {
	if p.pos+1 >= len(p.tokens) {
		return astdb.Token{Kind: astdb.TokEOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) peekAt(n int) astdb.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) || idx < 0 {
		return astdb.Token{Kind: astdb.TokEOF}
	}
	return p.tokens[idx]
}

func (p *Parser) at(kind astdb.TokenKind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) advance() astdb.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// skipNewlines advances past any run of newline tokens; statements and
// expressions tolerate trailing newlines the way a free-form block
// body does.
func (p *Parser) skipNewlines() {
	for p.at(astdb.TokNewline) {
		p.advance()
	}
}

// expect consumes the current token if it matches kind, emitting a
// P0001 diagnostic and returning ok=false otherwise. The caller decides
// whether to abandon the current declaration on failure.
func (p *Parser) expect(kind astdb.TokenKind) (astdb.Token, bool) {
	if p.at(kind) {
		return p.advance(), true
	}
	p.errorUnexpected(kind)
	return astdb.Token{}, false
}

func (p *Parser) errorUnexpected(want astdb.TokenKind) {
	tok := p.cur()
	p.unit.Diagnostics.Report(diagnostics.New(
		diagnostics.ErrP0001UnexpectedToken,
		spanOf(tok),
		"unexpected token while parsing",
	))
	_ = want
}

func spanOf(t astdb.Token) diagnostics.Span {
	return diagnostics.Span{
		StartByte: t.Span.StartByte, EndByte: t.Span.EndByte,
		StartLine: t.Span.Line, EndLine: t.Span.EndLine,
		StartCol: t.Span.Column, EndCol: t.Span.EndColumn,
	}
}

// gateAllows reports whether kind is permitted under the active
// profile gate. With no ProfileSet configured, everything is allowed.
func (p *Parser) gateAllows(kind astdb.TokenKind) bool {
	if p.profiles == nil || len(p.gateStack) == 0 {
		return true
	}
	active := p.gateStack[len(p.gateStack)-1]
	return p.profiles.AllowsToken(active, kind.String())
}

// pushGate enters a profile-restricted region; popGate (deferred by the
// caller) restores the previous gate, an RAII-guard discipline without
// needing a destructor.
func (p *Parser) pushGate(name string) {
	p.gateStack = append(p.gateStack, name)
}

func (p *Parser) popGate() {
	if len(p.gateStack) > 0 {
		p.gateStack = p.gateStack[:len(p.gateStack)-1]
	}
}

func (p *Parser) checkGate(tok astdb.Token) bool {
	if p.gateAllows(tok.Kind) {
		return true
	}
	p.unit.Diagnostics.Report(diagnostics.New(
		diagnostics.ErrP0002S0FeatureBlocked,
		spanOf(tok),
		"token not permitted under the active profile gate",
	))
	return false
}

// ParseProgram parses the entire token stream into a source_file node
// and finalizes the Unit with it as root. Declarations that fail parse
// are recovered past (§4.4.4) and simply omitted from source_file's
// child list; their partial nodes remain in the Unit's arrays but are
// unreachable from the root.
func (p *Parser) ParseProgram() astdb.NodeId {
	startTok := p.curId()
	var children []astdb.NodeId

	p.skipNewlines()
	for !p.at(astdb.TokEOF) {
		before := p.pos
		node, ok := p.parseDeclaration()
		if ok {
			children = append(children, node)
		}
		if p.pos == before {
			// No progress was made; force advancement to avoid an
			// infinite loop on a token no declaration parser handles.
			p.advance()
		}
		p.skipNewlines()
	}

	endTok := p.curId()
	root := p.unit.EmitNode(astdb.KindSourceFile, startTok, endTok, children...)
	p.unit.Finalize(root)
	return root
}

// synchronize consumes tokens until the next declaration-start keyword
// or EOF, implementing the recovery sweep from §4.4.4.
func (p *Parser) synchronize() {
	for !p.at(astdb.TokEOF) {
		if declStartKinds[p.cur().Kind] {
			return
		}
		p.advance()
	}
}
