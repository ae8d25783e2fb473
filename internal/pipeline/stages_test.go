package pipeline

import (
	"testing"

	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/dispatch"
	"github.com/lattice-lang/astcore/internal/tokenmap"
	"github.com/lattice-lang/astcore/internal/typesystem"
)

// srcTok is a shorthand for building a tokenmap.SourceToken with no span,
// standing in for the external tokenizer's real output.
func srcTok(kind tokenmap.SourceKind, lexeme string) tokenmap.SourceToken {
	return tokenmap.SourceToken{Kind: kind, Lexeme: lexeme}
}

func TestPipelineTokenMapThroughCommit(t *testing.T) {
	db := astdb.New()
	types := typesystem.NewRegistry()
	conv := typesystem.NewConversionRegistry()
	scopes := dispatch.NewScopeManager(dispatch.NewSignatureAnalyzer())
	ctx := NewPipelineContext("prog.lang", "func inc(x) do end", db, nil, "", types, conv, scopes, nil)

	// func inc ( x ) do end eof
	ctx.SourceTokens = []tokenmap.SourceToken{
		srcTok(tokenmap.SrcFunc, "func"),
		srcTok(tokenmap.SrcIdent, "inc"),
		srcTok(tokenmap.SrcLParen, "("),
		srcTok(tokenmap.SrcIdent, "x"),
		srcTok(tokenmap.SrcRParen, ")"),
		srcTok(tokenmap.SrcDo, "do"),
		srcTok(tokenmap.SrcEnd, "end"),
		srcTok(tokenmap.SrcEOF, ""),
	}

	pl := New(TokenMapProcessor{}, ParseProcessor{}, CommitProcessor{})
	ctx = pl.Run(ctx)

	if ctx.Unit == nil {
		t.Fatal("expected TokenMapProcessor to populate ctx.Unit")
	}
	if ctx.AstRoot == astdb.NoNodeId {
		t.Fatal("expected ParseProcessor to produce a root node")
	}
	if ctx.Snapshot == nil {
		t.Fatal("expected CommitProcessor to capture a snapshot")
	}
	if db.UnitCount() != 1 {
		t.Fatalf("expected exactly one committed unit, got %d", db.UnitCount())
	}

	root := ctx.Unit.Node(ctx.AstRoot)
	children := ctx.Unit.Children(root)
	if len(children) != 1 || ctx.Unit.Node(children[0]).Kind != astdb.KindFuncDecl {
		t.Fatalf("expected a single func_decl child, got %v", children)
	}
}

func TestPipelineFullRunRegistersAndResolves(t *testing.T) {
	db := astdb.New()
	types := typesystem.NewRegistry()
	conv := typesystem.NewConversionRegistry()
	scopes := dispatch.NewScopeManager(dispatch.NewSignatureAnalyzer())
	ctx := NewPipelineContext("prog.lang", "func inc(x) do end\nfunc main() do inc(1) end", db, nil, "", types, conv, scopes, nil)

	ctx.SourceTokens = []tokenmap.SourceToken{
		srcTok(tokenmap.SrcFunc, "func"), srcTok(tokenmap.SrcIdent, "inc"), srcTok(tokenmap.SrcLParen, "("),
		srcTok(tokenmap.SrcIdent, "x"), srcTok(tokenmap.SrcRParen, ")"), srcTok(tokenmap.SrcDo, "do"), srcTok(tokenmap.SrcEnd, "end"),
		srcTok(tokenmap.SrcFunc, "func"), srcTok(tokenmap.SrcIdent, "main"), srcTok(tokenmap.SrcLParen, "("), srcTok(tokenmap.SrcRParen, ")"),
		srcTok(tokenmap.SrcDo, "do"),
		srcTok(tokenmap.SrcIdent, "inc"), srcTok(tokenmap.SrcLParen, "("), srcTok(tokenmap.SrcInt, "1"), srcTok(tokenmap.SrcRParen, ")"),
		srcTok(tokenmap.SrcEnd, "end"),
		srcTok(tokenmap.SrcEOF, ""),
	}

	pl := New(TokenMapProcessor{}, ParseProcessor{}, CommitProcessor{}, RegisterProcessor{}, ResolveProcessor{}, DiagnoseProcessor{})
	ctx = pl.Run(ctx)

	if len(ctx.Errors) != 0 {
		t.Fatalf("expected no diagnostics for a call matching a registered declaration, got %v", ctx.Errors)
	}
}
