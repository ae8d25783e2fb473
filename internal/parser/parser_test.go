package parser

import (
	"testing"

	"github.com/lattice-lang/astcore/internal/astdb"
)

// tok is a minimal token spec for feeding a Unit's token column directly,
// bypassing the Token Mapper. Walrus is always pre-split into
// (TokColon, TokAssign), matching what the mapper actually produces.
type tok struct {
	kind astdb.TokenKind
}

func k(kind astdb.TokenKind) tok { return tok{kind: kind} }

func buildUnit(toks []tok) *astdb.Unit {
	u := astdb.NewUnit("t.lang", "")
	for _, ts := range toks {
		u.AddToken(astdb.Token{Kind: ts.kind})
	}
	u.AddToken(astdb.Token{Kind: astdb.TokEOF})
	return u
}

func mustParse(toks []tok) (*astdb.Unit, astdb.NodeId) {
	u := buildUnit(toks)
	p := New(u, nil, "")
	root := p.ParseProgram()
	return u, root
}

func childKinds(u *astdb.Unit, n astdb.NodeId) []astdb.NodeKind {
	kids := u.Children(u.Node(n))
	out := make([]astdb.NodeKind, len(kids))
	for i, c := range kids {
		out[i] = u.Node(c).Kind
	}
	return out
}

// TestStructLiteralVsBlock covers S1: `func main() do let p = Point { x: 1, y: 2 } end`.
func TestStructLiteralVsBlock(t *testing.T) {
	toks := []tok{
		k(astdb.TokFunc), k(astdb.TokIdent), k(astdb.TokLParen), k(astdb.TokRParen), k(astdb.TokDo),
		k(astdb.TokLet), k(astdb.TokIdent), k(astdb.TokAssign),
		k(astdb.TokIdent), k(astdb.TokLBrace),
		k(astdb.TokIdent), k(astdb.TokColon), k(astdb.TokInteger), k(astdb.TokComma),
		k(astdb.TokIdent), k(astdb.TokColon), k(astdb.TokInteger),
		k(astdb.TokRBrace),
		k(astdb.TokEnd),
	}
	u, root := mustParse(toks)
	if len(u.Diagnostics.All()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", u.Diagnostics.All())
	}

	fn := u.Children(u.Node(root))[0]
	if u.Node(fn).Kind != astdb.KindFuncDecl {
		t.Fatalf("expected func_decl, got %v", u.Node(fn).Kind)
	}
	fnKids := u.Children(u.Node(fn))
	body := fnKids[len(fnKids)-1]
	if u.Node(body).Kind != astdb.KindBlockStmt {
		t.Fatalf("expected block_stmt body, got %v", u.Node(body).Kind)
	}
	letStmt := u.Children(u.Node(body))[0]
	if u.Node(letStmt).Kind != astdb.KindLetStmt {
		t.Fatalf("expected let_stmt, got %v", u.Node(letStmt).Kind)
	}
	letKids := u.Children(u.Node(letStmt))
	structLit := letKids[len(letKids)-1]
	if u.Node(structLit).Kind != astdb.KindStructLiteral {
		t.Fatalf("initializer must be a struct_literal, got %v", u.Node(structLit).Kind)
	}
	got := childKinds(u, structLit)
	want := []astdb.NodeKind{
		astdb.KindIdentifier, astdb.KindIdentifier, astdb.KindIntegerLiteral,
		astdb.KindIdentifier, astdb.KindIntegerLiteral,
	}
	if len(got) != len(want) {
		t.Fatalf("struct_literal edges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("struct_literal edge %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestUsingWalrus covers S2: `using file := open("p") do end`.
func TestUsingWalrus(t *testing.T) {
	toks := []tok{
		k(astdb.TokUsing), k(astdb.TokIdent),
		k(astdb.TokColon), k(astdb.TokAssign),
		k(astdb.TokIdent), k(astdb.TokLParen), k(astdb.TokString), k(astdb.TokRParen),
		k(astdb.TokDo), k(astdb.TokEnd),
	}
	u, root := mustParse(toks)
	if len(u.Diagnostics.All()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", u.Diagnostics.All())
	}
	using := u.Children(u.Node(root))[0]
	if u.Node(using).Kind != astdb.KindUsingResourceStmt {
		t.Fatalf("expected using_resource_stmt, got %v", u.Node(using).Kind)
	}
	kids := u.Children(u.Node(using))
	if len(kids) < 3 {
		t.Fatalf("expected at least 3 edges, got %d", len(kids))
	}
	if u.Node(kids[0]).Kind != astdb.KindIdentifier {
		t.Fatalf("first edge must be identifier(file), got %v", u.Node(kids[0]).Kind)
	}
	if u.Node(kids[1]).Kind != astdb.KindCallExpr {
		t.Fatalf("second edge must be call_expr for open(\"p\") with no intervening type edge, got %v", u.Node(kids[1]).Kind)
	}
}

// TestPipelineChain covers S3: `let r = 1 |> inc() |> dbl()`.
func TestPipelineChain(t *testing.T) {
	toks := []tok{
		k(astdb.TokLet), k(astdb.TokIdent), k(astdb.TokAssign),
		k(astdb.TokInteger), k(astdb.TokPipeGt),
		k(astdb.TokIdent), k(astdb.TokLParen), k(astdb.TokRParen), k(astdb.TokPipeGt),
		k(astdb.TokIdent), k(astdb.TokLParen), k(astdb.TokRParen),
	}
	u, root := mustParse(toks)
	if len(u.Diagnostics.All()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", u.Diagnostics.All())
	}
	letStmt := u.Children(u.Node(root))[0]
	kids := u.Children(u.Node(letStmt))
	init := kids[len(kids)-1]
	if u.Node(init).Kind != astdb.KindCallExpr {
		t.Fatalf("initializer must be call_expr, got %v", u.Node(init).Kind)
	}
	outer := u.Children(u.Node(init))
	if u.Node(outer[0]).Kind != astdb.KindIdentifier { // dbl
		t.Fatalf("outermost callee must be dbl's identifier, got %v", u.Node(outer[0]).Kind)
	}
	inner := outer[1]
	if u.Node(inner).Kind != astdb.KindCallExpr {
		t.Fatalf("inner call_expr for inc(1) expected, got %v", u.Node(inner).Kind)
	}
	innerKids := u.Children(u.Node(inner))
	if u.Node(innerKids[0]).Kind != astdb.KindIdentifier { // inc
		t.Fatalf("inner callee must be inc's identifier, got %v", u.Node(innerKids[0]).Kind)
	}
	if u.Node(innerKids[1]).Kind != astdb.KindIntegerLiteral {
		t.Fatalf("inner argument must be the integer literal 1, got %v", u.Node(innerKids[1]).Kind)
	}
}

// TestPostfixWhenModifiesReturn covers the end-to-end postfix modifier
// path (§4.4.3): `return 1 when x` inside a block, verifying the
// rotated node order and the synthesized span.
func TestPostfixWhenModifiesReturn(t *testing.T) {
	toks := []tok{
		k(astdb.TokDo),
		k(astdb.TokReturn), k(astdb.TokInteger), k(astdb.TokWhen), k(astdb.TokIdent),
		k(astdb.TokEnd),
	}
	u := buildUnit(toks)
	p := New(u, nil, "")
	block := p.parseBlock()
	if len(u.Diagnostics.All()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", u.Diagnostics.All())
	}
	stmt := u.Children(u.Node(block))[0]
	if u.Node(stmt).Kind != astdb.KindPostfixWhen {
		t.Fatalf("expected postfix_when, got %v", u.Node(stmt).Kind)
	}
	kids := u.Children(u.Node(stmt))
	if len(kids) != 2 {
		t.Fatalf("postfix_when must have exactly 2 children, got %d", len(kids))
	}
	if u.Node(kids[0]).Kind != astdb.KindIdentifier {
		t.Fatalf("first child must be the condition identifier, got %v", u.Node(kids[0]).Kind)
	}
	if u.Node(kids[1]).Kind != astdb.KindReturnStmt {
		t.Fatalf("second child must be the return_stmt, got %v", u.Node(kids[1]).Kind)
	}
	if kids[0] >= kids[1] {
		t.Fatalf("condition root must precede statement root in node order")
	}
}

// TestUseFormPrecedence exercises all four use-forms (§4.4.3 resolution
// of the Open Question): zig import, aliased graft, unaliased graft,
// and a selective module path.
func TestUseFormPrecedence(t *testing.T) {
	t.Run("zig", func(t *testing.T) {
		u, root := mustParse([]tok{k(astdb.TokUse), k(astdb.TokZig), k(astdb.TokString)})
		n := u.Children(u.Node(root))[0]
		if u.Node(n).Kind != astdb.KindUseZig {
			t.Fatalf("expected use_zig, got %v", u.Node(n).Kind)
		}
	})
	t.Run("aliased graft", func(t *testing.T) {
		u, root := mustParse([]tok{
			k(astdb.TokUse), k(astdb.TokIdent), k(astdb.TokAssign), k(astdb.TokIdent), k(astdb.TokString),
		})
		n := u.Children(u.Node(root))[0]
		if u.Node(n).Kind != astdb.KindGraft {
			t.Fatalf("expected graft, got %v", u.Node(n).Kind)
		}
		if len(u.Children(u.Node(n))) != 3 {
			t.Fatalf("aliased graft must carry (alias, origin, path)")
		}
	})
	t.Run("unaliased graft", func(t *testing.T) {
		u, root := mustParse([]tok{k(astdb.TokUse), k(astdb.TokIdent), k(astdb.TokString)})
		n := u.Children(u.Node(root))[0]
		if u.Node(n).Kind != astdb.KindGraft {
			t.Fatalf("expected graft, got %v", u.Node(n).Kind)
		}
		if len(u.Children(u.Node(n))) != 2 {
			t.Fatalf("unaliased graft must carry (origin, path)")
		}
	})
	t.Run("module path selective", func(t *testing.T) {
		u, root := mustParse([]tok{
			k(astdb.TokUse), k(astdb.TokIdent), k(astdb.TokDot), k(astdb.TokIdent),
			k(astdb.TokDot), k(astdb.TokLBrace), k(astdb.TokIdent), k(astdb.TokComma), k(astdb.TokIdent), k(astdb.TokRBrace),
		})
		n := u.Children(u.Node(root))[0]
		if u.Node(n).Kind != astdb.KindUseSelective {
			t.Fatalf("expected use_selective, got %v", u.Node(n).Kind)
		}
	})
	t.Run("module path plain", func(t *testing.T) {
		u, root := mustParse([]tok{
			k(astdb.TokUse), k(astdb.TokIdent), k(astdb.TokDot), k(astdb.TokIdent),
		})
		n := u.Children(u.Node(root))[0]
		if u.Node(n).Kind != astdb.KindUseStmt {
			t.Fatalf("expected use_stmt, got %v", u.Node(n).Kind)
		}
	})
}

// TestErrorRecoverySynchronize covers §4.4.4: a malformed declaration is
// skipped up to the next declaration-start keyword without corrupting
// the rest of the parse.
func TestErrorRecoverySynchronize(t *testing.T) {
	toks := []tok{
		k(astdb.TokRParen), // not a valid declaration start
		k(astdb.TokLet), k(astdb.TokIdent), k(astdb.TokAssign), k(astdb.TokInteger),
	}
	u, root := mustParse(toks)
	diags := u.Diagnostics.All()
	if len(diags) != 1 || diags[0].Code != "P0001" {
		t.Fatalf("expected exactly one P0001 diagnostic, got %v", diags)
	}
	kids := u.Children(u.Node(root))
	if len(kids) != 1 {
		t.Fatalf("expected only the recovered let_stmt to be reachable from source_file, got %d children", len(kids))
	}
	if u.Node(kids[0]).Kind != astdb.KindLetStmt {
		t.Fatalf("expected let_stmt after recovery, got %v", u.Node(kids[0]).Kind)
	}
}

// TestValidateInvariantsHoldsAfterFullParse exercises testable
// properties 1-2 (§8) end to end through the real parser rather than
// hand-built nodes.
func TestValidateInvariantsHoldsAfterFullParse(t *testing.T) {
	toks := []tok{
		k(astdb.TokFunc), k(astdb.TokIdent), k(astdb.TokLParen), k(astdb.TokIdent), k(astdb.TokColon), k(astdb.TokIdent), k(astdb.TokRParen),
		k(astdb.TokArrow), k(astdb.TokIdent),
		k(astdb.TokDo),
		k(astdb.TokIf), k(astdb.TokIdent),
		k(astdb.TokDo), k(astdb.TokReturn), k(astdb.TokInteger), k(astdb.TokEnd),
		k(astdb.TokElse),
		k(astdb.TokDo), k(astdb.TokReturn), k(astdb.TokInteger), k(astdb.TokEnd),
		k(astdb.TokEnd),
	}
	u, _ := mustParse(toks)
	if problems := u.ValidateInvariants(); len(problems) != 0 {
		t.Fatalf("invariant violations after full parse: %v", problems)
	}
}
