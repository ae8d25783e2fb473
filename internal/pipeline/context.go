package pipeline

import (
	"github.com/lattice-lang/astcore/internal/astdb"
	"github.com/lattice-lang/astcore/internal/config"
	"github.com/lattice-lang/astcore/internal/contracts"
	"github.com/lattice-lang/astcore/internal/diagnostics"
	"github.com/lattice-lang/astcore/internal/dispatch"
	"github.com/lattice-lang/astcore/internal/modules"
	"github.com/lattice-lang/astcore/internal/tokenmap"
	"github.com/lattice-lang/astcore/internal/typesystem"
)

// PipelineContext threads state between Processor stages (Token-Map,
// Parse, Register, Resolve, Diagnose): each stage takes and returns a
// pointer to shared state, mutating it incrementally.
type PipelineContext struct {
	FilePath string
	Source   string

	ProfileSet  *config.ProfileSet
	ProfileName string

	SourceTokens []tokenmap.SourceToken
	Unit         *astdb.Unit
	AstRoot      astdb.NodeId

	DB       *astdb.ASTDB
	UnitId   astdb.UnitId
	Snapshot *astdb.Snapshot

	Types       *typesystem.Registry
	Conversions *typesystem.ConversionRegistry
	Scopes      *dispatch.ScopeManager
	Modules     *modules.Dispatcher

	// WildcardType stands in for a parameter or argument type the
	// Register/Resolve stages haven't inferred (full type inference is
	// out of scope): every declared parameter and call argument is typed
	// as WildcardType, which keeps dispatch arity-correct without
	// claiming static type precision the pipeline doesn't have.
	WildcardType typesystem.TypeId

	// EffectContracts accumulates the effect-system boundary contracts
	// EffectContractProcessor builds from this unit's function
	// declarations (§6); the effect system itself is external and never
	// invoked from here.
	EffectContracts []contracts.EffectSystemInputContract

	Errors []diagnostics.Diagnostic
}

const wildcardTypeName = "any"

// NewPipelineContext builds the initial context for one source file,
// sharing the process-wide Type Registry, Conversion Registry, Scope
// Manager, and Module Dispatcher threaded in by the caller rather than
// reaching for ambient singletons.
func NewPipelineContext(filePath, source string, db *astdb.ASTDB, profiles *config.ProfileSet, profileName string,
	types *typesystem.Registry, conversions *typesystem.ConversionRegistry,
	scopes *dispatch.ScopeManager, mods *modules.Dispatcher) *PipelineContext {
	wildcard, ok := types.ResolveByName(db.Interner.InternString(wildcardTypeName))
	if !ok {
		wildcard = types.RegisterType(db.Interner.InternString(wildcardTypeName), typesystem.KindOpen)
	}
	return &PipelineContext{
		FilePath:     filePath,
		Source:       source,
		ProfileSet:   profiles,
		ProfileName:  profileName,
		DB:           db,
		Types:        types,
		Conversions:  conversions,
		Scopes:       scopes,
		Modules:      mods,
		WildcardType: wildcard,
	}
}

// Processor is one stage of the pipeline; it mutates and returns ctx.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}
