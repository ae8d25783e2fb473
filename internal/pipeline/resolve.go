package pipeline

import (
	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/diagnostics"
	"github.com/lattice-lang/astcore/internal/dispatch"
	"github.com/lattice-lang/astcore/internal/typesystem"
)

// ResolveProcessor runs the Semantic Resolver's four-phase pipeline
// against every call_expr in ctx.Unit, reporting R0001/R0002 for calls
// that fail to resolve uniquely. It scans the node column directly
// rather than walking parent/child edges, since every call_expr is
// reachable that way regardless of nesting depth.
type ResolveProcessor struct{}

func (ResolveProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Unit == nil || ctx.Scopes == nil || ctx.Types == nil {
		return ctx
	}
	resolver := dispatch.NewResolver(ctx.Types, ctx.Conversions)
	scope := ctx.Scopes.Root()

	for i := 0; i < ctx.Unit.NodeCount(); i++ {
		id := astdb.NodeId(i)
		node := ctx.Unit.Node(id)
		if node.Kind != astdb.KindCallExpr {
			continue
		}
		resolveCall(ctx, resolver, scope, id, node)
	}
	return ctx
}

func resolveCall(ctx *PipelineContext, resolver *dispatch.Resolver, scope *dispatch.Scope, id astdb.NodeId, node astdb.Node) {
	children := ctx.Unit.Children(node)
	if len(children) == 0 {
		return
	}
	callee := ctx.Unit.Node(children[0])
	if callee.Kind != astdb.KindIdentifier {
		return // method/field-call targets resolve through a different path, not name dispatch
	}
	calleeTok := ctx.Unit.Token(callee.FirstToken)
	if !calleeTok.HasStr {
		return
	}
	name := ctx.DB.Interner.Resolve(calleeTok.Str)

	argCount := len(children) - 1
	argTypes := make([]typesystem.TypeId, argCount)
	for i := range argTypes {
		argTypes[i] = ctx.WildcardType
	}

	res := resolver.Resolve(scope, dispatch.CallSite{Name: name, ArgTypes: argTypes})
	span := spanOfNode(ctx.Unit, node)

	switch {
	case res.NoMatch:
		ctx.Unit.Diagnostics.Report(diagnostics.New(
			diagnostics.ErrR0001NoMatchingImpl, span,
			"no implementation of \""+name+"\" matches this call",
		))
	case len(res.Ambiguous) > 0:
		ctx.Unit.Diagnostics.Report(diagnostics.New(
			diagnostics.ErrR0002AmbiguousDispatch, span,
			"call to \""+name+"\" is ambiguous among equally specific implementations",
		))
	}
	_ = id
}

func spanOfNode(unit *astdb.Unit, node astdb.Node) diagnostics.Span {
	first := unit.Token(node.FirstToken)
	last := unit.Token(node.LastToken)
	return diagnostics.Span{
		StartByte: first.Span.StartByte, EndByte: last.Span.EndByte,
		StartLine: first.Span.Line, EndLine: last.Span.EndLine,
		StartCol: first.Span.Column, EndCol: last.Span.EndColumn,
	}
}
