package pipeline

import (
	"testing"

	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/dispatch"
	"github.com/lattice-lang/astcore/internal/tokenmap"
	"github.com/lattice-lang/astcore/internal/typesystem"
)

func TestEffectContractProcessorBuildsOneContractPerFunction(t *testing.T) {
	db := astdb.New()
	types := typesystem.NewRegistry()
	conv := typesystem.NewConversionRegistry()
	scopes := dispatch.NewScopeManager(dispatch.NewSignatureAnalyzer())
	ctx := NewPipelineContext("prog.lang", "func inc(x) do end", db, nil, "", types, conv, scopes, nil)

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

	pl := New(TokenMapProcessor{}, ParseProcessor{}, EffectContractProcessor{}, DiagnoseProcessor{})
	ctx = pl.Run(ctx)

	if len(ctx.EffectContracts) != 1 {
		t.Fatalf("expected exactly one effect contract, got %d", len(ctx.EffectContracts))
	}
	c := ctx.EffectContracts[0]
	if len(c.Parameters) != 1 {
		t.Fatalf("expected one parameter in the contract, got %d", len(c.Parameters))
	}
	if got := db.Interner.Resolve(c.FunctionName); got != "inc" {
		t.Fatalf("got function name %q, want %q", got, "inc")
	}
	if c.FunctionNode == astdb.NoNodeId {
		t.Fatal("expected a valid function node id on the contract")
	}
	if len(ctx.Errors) != 0 {
		t.Fatalf("expected no diagnostics for a well-formed declaration, got %v", ctx.Errors)
	}
}
