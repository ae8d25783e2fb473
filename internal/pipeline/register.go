package pipeline

import (
	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/dispatch"
	"github.com/lattice-lang/astcore/internal/typesystem"
)

// declKinds are the top-level declaration kinds the Register stage
// turns into dispatch.Implementations.
var declKinds = map[astdb.NodeKind]bool{
	astdb.KindFuncDecl: true, astdb.KindAsyncFuncDecl: true, astdb.KindExternFunc: true,
}

// RegisterProcessor walks ctx.Unit's top-level declarations and
// registers each function declaration as a dispatch.Implementation in
// the root scope's SignatureAnalyzer. Parameter types are not yet
// statically known (no full type inference is in scope), so every
// parameter is registered at ctx.WildcardType; arity and name alone
// drive Signature Analyzer lookups until a type-checking pass can
// supply precise types.
type RegisterProcessor struct{}

func (RegisterProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Unit == nil || ctx.AstRoot == astdb.NoNodeId || ctx.Scopes == nil {
		return ctx
	}
	root := ctx.Unit.Node(ctx.AstRoot)
	for _, declId := range ctx.Unit.Children(root) {
		decl := ctx.Unit.Node(declId)
		if !declKinds[decl.Kind] {
			continue
		}
		registerFuncDecl(ctx, decl)
	}
	return ctx
}

func registerFuncDecl(ctx *PipelineContext, decl astdb.Node) {
	children := ctx.Unit.Children(decl)
	if len(children) == 0 {
		return
	}
	nameNode := ctx.Unit.Node(children[0])
	nameTok := ctx.Unit.Token(nameNode.FirstToken)
	if !nameTok.HasStr {
		return
	}
	name := ctx.DB.Interner.Resolve(nameTok.Str)

	// A param contributes exactly one identifier child (its name); an
	// optional type annotation, return type, or contract clause never
	// uses KindIdentifier, so counting identifier children after the
	// name gives the exact arity regardless of which params carry an
	// explicit type.
	arity := 0
	for _, c := range children[1:] {
		if ctx.Unit.Node(c).Kind == astdb.KindIdentifier {
			arity++
		}
	}

	paramTypes := make([]typesystem.TypeId, arity)
	for i := range paramTypes {
		paramTypes[i] = ctx.WildcardType
	}

	ctx.Scopes.Analyzer().AddImplementation(dispatch.Implementation{
		Name:       name,
		ParamTypes: paramTypes,
		ReturnType: ctx.WildcardType,
		SourceSpan: spanOfNode(ctx.Unit, decl),
		// No declared-rank syntax is parsed yet, so every registered
		// declaration ties at rank zero until specificity or explicit
		// conversion cost breaks it.
		SpecificityRank: 0,
	})
}
