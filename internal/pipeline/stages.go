package pipeline

import (
	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/parser"
	"github.com/lattice-lang/astcore/internal/tokenmap"
)

// TokenMapProcessor runs the Token Mapper over ctx.SourceTokens, writing
// the resulting astdb.Token column into a fresh Unit.
type TokenMapProcessor struct{}

func (TokenMapProcessor) Process(ctx *PipelineContext) *PipelineContext {
	unit := astdb.NewUnit(ctx.FilePath, ctx.Source)
	mapped := tokenmap.Map(ctx.DB.Interner, ctx.SourceTokens)
	for _, tok := range mapped {
		unit.AddToken(tok)
	}
	ctx.Unit = unit
	return ctx
}

// ParseProcessor runs the Parser over ctx.Unit's token column, producing
// the source_file root and collecting any diagnostics the parser
// reported along the way.
type ParseProcessor struct{}

func (ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Unit == nil {
		return ctx
	}
	p := parser.New(ctx.Unit, ctx.ProfileSet, ctx.ProfileName)
	ctx.AstRoot = p.ParseProgram()
	return ctx
}

// CommitProcessor installs ctx.Unit into the shared ASTDB and captures a
// Snapshot once parsing has produced a root, regardless of whether the
// parser reported diagnostics along the way: partial ASTs still commit,
// rather than blocking on diagnostics.
type CommitProcessor struct{}

func (CommitProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Unit == nil || ctx.Unit.RootNode == astdb.NoNodeId {
		return ctx
	}
	ctx.UnitId = ctx.DB.AddUnit(ctx.Unit)
	ctx.Snapshot = ctx.DB.CreateSnapshot()
	return ctx
}

// DiagnoseProcessor drains the Unit's Diagnostic Engine into ctx.Errors
// so downstream consumers (cmd/astcorec, tests) don't need to reach
// back into the Unit.
type DiagnoseProcessor struct{}

func (DiagnoseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Unit == nil {
		return ctx
	}
	ctx.Errors = append(ctx.Errors, ctx.Unit.Diagnostics.All()...)
	return ctx
}
