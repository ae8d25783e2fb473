package dispatch

import (
	"testing"

	"github.com/lattice-lang/astcore/internal/typesystem"
)

func setup() (*typesystem.Registry, *typesystem.ConversionRegistry, typesystem.TypeId, typesystem.TypeId, typesystem.TypeId) {
	types := typesystem.NewRegistry()
	numeric := types.RegisterType(0, typesystem.KindOpen)
	intT := types.RegisterType(1, typesystem.KindPrimitive, numeric)
	floatT := types.RegisterType(2, typesystem.KindPrimitive, numeric)
	return types, typesystem.NewConversionRegistry(), numeric, intT, floatT
}

func TestCandidatesFiltersByArity(t *testing.T) {
	types, _, _, intT, _ := setup()
	_ = types
	sig := NewSignatureAnalyzer()
	one := sig.AddImplementation(Implementation{Name: "area", ParamTypes: []typesystem.TypeId{intT}})
	two := sig.AddImplementation(Implementation{Name: "area", ParamTypes: []typesystem.TypeId{intT, intT}})

	got := sig.Candidates(CallSite{Name: "area", ArgTypes: []typesystem.TypeId{intT}})
	if len(got) != 1 || got[0].ID != one.ID {
		t.Fatalf("expected only the unary overload, got %+v", got)
	}
	got2 := sig.Candidates(CallSite{Name: "area", ArgTypes: []typesystem.TypeId{intT, intT}})
	if len(got2) != 1 || got2[0].ID != two.ID {
		t.Fatalf("expected only the binary overload, got %+v", got2)
	}
}

func TestCandidatesIncludesMatchingVariadic(t *testing.T) {
	types, _, _, intT, _ := setup()
	_ = types
	sig := NewSignatureAnalyzer()
	sig.AddImplementation(Implementation{Name: "sum", ParamTypes: []typesystem.TypeId{intT}, Variadic: true})

	got := sig.Candidates(CallSite{Name: "sum", ArgTypes: []typesystem.TypeId{intT, intT, intT}})
	if len(got) != 1 {
		t.Fatalf("expected the variadic overload to be a candidate, got %d", len(got))
	}
}

func TestResolverPicksMoreSpecificSubtype(t *testing.T) {
	types, conv, numeric, intT, _ := setup()
	sig := NewSignatureAnalyzer()
	sig.AddImplementation(Implementation{Name: "describe", ParamTypes: []typesystem.TypeId{numeric}})
	specific := sig.AddImplementation(Implementation{Name: "describe", ParamTypes: []typesystem.TypeId{intT}})

	scopes := NewScopeManager(sig)
	r := NewResolver(types, conv)
	res := r.Resolve(scopes.Root(), CallSite{Name: "describe", ArgTypes: []typesystem.TypeId{intT}})

	if res.Unique == nil {
		t.Fatalf("expected a unique resolution, got %+v", res)
	}
	if res.Unique.Impl.ID != specific.ID {
		t.Fatalf("expected the Int-specific overload to win, got impl %d", res.Unique.Impl.ID)
	}
}

func TestResolverUsesConversionWhenNoDirectMatch(t *testing.T) {
	types, conv, _, intT, floatT := setup()
	conv.AddConversion(intT, typesystem.ConversionEdge{To: floatT, Cost: 1, Method: "widen"})

	sig := NewSignatureAnalyzer()
	impl := sig.AddImplementation(Implementation{Name: "half", ParamTypes: []typesystem.TypeId{floatT}})

	scopes := NewScopeManager(sig)
	r := NewResolver(types, conv)
	res := r.Resolve(scopes.Root(), CallSite{Name: "half", ArgTypes: []typesystem.TypeId{intT}})

	if res.Unique == nil || res.Unique.Impl.ID != impl.ID {
		t.Fatalf("expected the float overload to win via conversion, got %+v", res)
	}
	if res.Unique.TotalCost != 1 {
		t.Fatalf("expected conversion cost 1, got %d", res.Unique.TotalCost)
	}
}

func TestResolverPrefersExactMatchOverUnconvertibleOverload(t *testing.T) {
	types, conv, _, intT, floatT := setup()
	sig := NewSignatureAnalyzer()
	sig.AddImplementation(Implementation{Name: "mix", ParamTypes: []typesystem.TypeId{intT, floatT}})
	sig.AddImplementation(Implementation{Name: "mix", ParamTypes: []typesystem.TypeId{floatT, intT}})

	scopes := NewScopeManager(sig)
	r := NewResolver(types, conv)
	res := r.Resolve(scopes.Root(), CallSite{Name: "mix", ArgTypes: []typesystem.TypeId{intT, floatT}})

	// (int, float) matches the call directly. (float, int) is not viable:
	// int and float are unrelated siblings under numeric and no
	// conversion between them is registered, so it is filtered out and
	// the call resolves uniquely.
	if res.Unique == nil {
		t.Fatalf("expected the exact first overload to resolve uniquely by direct type match, got %+v", res)
	}
}

func TestResolverNoMatchWhenUnreachable(t *testing.T) {
	types, conv, _, intT, floatT := setup()
	sig := NewSignatureAnalyzer()
	sig.AddImplementation(Implementation{Name: "onlyInt", ParamTypes: []typesystem.TypeId{intT}})

	scopes := NewScopeManager(sig)
	r := NewResolver(types, conv)
	res := r.Resolve(scopes.Root(), CallSite{Name: "onlyInt", ArgTypes: []typesystem.TypeId{floatT}})

	if !res.NoMatch {
		t.Fatalf("expected no_match when no conversion exists, got %+v", res)
	}
}

// TestTieBreakPrefersHigherSpecificityRank exercises the hot-reload
// consistency scenario: export process(int) with rank 50, resolve,
// then register a replacement at the same signature with rank 150.
// Re-resolving must return the higher-ranked implementation purely on
// declared rank, since neither implementation's parameter types are a
// strict refinement of the other's.
func TestTieBreakPrefersHigherSpecificityRank(t *testing.T) {
	types, conv, _, intT, _ := setup()
	sig := NewSignatureAnalyzer()
	sig.AddImplementation(Implementation{Name: "process", ParamTypes: []typesystem.TypeId{intT}, SpecificityRank: 50})

	scopes := NewScopeManager(sig)
	r := NewResolver(types, conv)
	res := r.Resolve(scopes.Root(), CallSite{Name: "process", ArgTypes: []typesystem.TypeId{intT}})
	if res.Unique == nil || res.Unique.Impl.SpecificityRank != 50 {
		t.Fatalf("expected the rank-50 implementation to resolve first, got %+v", res)
	}

	// Hot reload replaces the implementation with a higher-ranked one.
	// SignatureAnalyzer registration is append-only, so the new impl
	// coexists with the old and must win resolution purely on rank.
	sig.AddImplementation(Implementation{Name: "process", ParamTypes: []typesystem.TypeId{intT}, SpecificityRank: 150})

	res2 := r.Resolve(scopes.Root(), CallSite{Name: "process", ArgTypes: []typesystem.TypeId{intT}})
	if res2.Unique == nil {
		t.Fatalf("expected a unique resolution after hot reload, got %+v", res2)
	}
	if res2.Unique.Impl.SpecificityRank != 150 {
		t.Fatalf("expected hot reload's rank-150 implementation to win re-resolution, got rank %d", res2.Unique.Impl.SpecificityRank)
	}
}

func TestScopeLocalShadowOverridesGlobal(t *testing.T) {
	types, _, _, intT, _ := setup()
	_ = types
	sig := NewSignatureAnalyzer()
	sig.AddImplementation(Implementation{Name: "f", ParamTypes: []typesystem.TypeId{intT}})

	scopes := NewScopeManager(sig)
	child := scopes.Root().Enter()
	localFam := newFunctionFamily("f")
	localFam.add(&Implementation{ID: 99, Name: "f", ParamTypes: []typesystem.TypeId{intT}})
	child.ShadowLocal("f", localFam)

	fam, ok := child.LookupFunction("f")
	if !ok || fam != localFam {
		t.Fatalf("expected the local shadow to win lookup")
	}
}
