package pipeline

import (
	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/contracts"
	"github.com/lattice-lang/astcore/internal/diagnostics"
)

// EffectContractProcessor walks ctx.Unit's top-level function
// declarations and builds the effect-system boundary contract (§6) for
// each one. The core never calls an effect system; it only builds and
// validates the contract, the same way Register builds
// dispatch.Implementations without running any code.
type EffectContractProcessor struct{}

func (EffectContractProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Unit == nil || ctx.AstRoot == astdb.NoNodeId {
		return ctx
	}
	root := ctx.Unit.Node(ctx.AstRoot)
	for declIdx, nodeId := range ctx.Unit.Children(root) {
		decl := ctx.Unit.Node(nodeId)
		if !declKinds[decl.Kind] {
			continue
		}
		contract, ok := buildEffectContract(ctx, astdb.DeclId(declIdx), nodeId, decl)
		if !ok {
			continue
		}
		if err := contract.Validate(); err != nil {
			ctx.Unit.Diagnostics.Report(diagnostics.New(
				diagnostics.ErrT0005ContractViolation,
				spanOfNode(ctx.Unit, decl),
				err.Error(),
			))
			continue
		}
		ctx.EffectContracts = append(ctx.EffectContracts, contract)
	}
	return ctx
}

// buildEffectContract mirrors registerFuncDecl's child-walk (counting an
// identifier child as one parameter) but additionally records each
// parameter's name, rather than just its arity.
func buildEffectContract(ctx *PipelineContext, declId astdb.DeclId, nodeId astdb.NodeId, decl astdb.Node) (contracts.EffectSystemInputContract, bool) {
	children := ctx.Unit.Children(decl)
	if len(children) == 0 {
		return contracts.EffectSystemInputContract{}, false
	}
	nameNode := ctx.Unit.Node(children[0])
	nameTok := ctx.Unit.Token(nameNode.FirstToken)
	if !nameTok.HasStr {
		return contracts.EffectSystemInputContract{}, false
	}

	var params []contracts.EffectParameter
	for _, c := range children[1:] {
		child := ctx.Unit.Node(c)
		if child.Kind != astdb.KindIdentifier {
			continue
		}
		tok := ctx.Unit.Token(child.FirstToken)
		params = append(params, contracts.EffectParameter{
			Name:         tok.Str,
			IsCapability: false,
		})
	}

	return contracts.EffectSystemInputContract{
		DeclId:       declId,
		FunctionName: nameTok.Str,
		FunctionNode: nodeId,
		Parameters:   params,
		SourceSpan:   spanOfNode(ctx.Unit, decl),
	}, true
}
