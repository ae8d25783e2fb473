package dispatch

import "github.com/lattice-lang/astcore/internal/typesystem"

// Match is one Implementation's viability against a CallSite: every
// parameter either accepts the argument directly (via subtyping) or
// through a conversion path, whose costs sum into TotalCost. A
// candidate with no viable path for some parameter is never built into
// a Match at all.
type Match struct {
	Impl       *Implementation
	TotalCost  uint32
	AnyLossy   bool
	Conversion int // count of parameters that required a non-identity conversion
}

// tryMatch checks whether impl can accept call's argument types,
// consulting the Type Registry for direct subtyping and the Conversion
// Registry for anything that needs converting (§4.10 phases 2-3). A
// variadic Implementation's trailing parameters are all checked against
// its last declared ParamType.
func tryMatch(impl *Implementation, call CallSite, types *typesystem.Registry, conv *typesystem.ConversionRegistry) (Match, bool) {
	m := Match{Impl: impl}
	for i, argType := range call.ArgTypes {
		paramType := impl.ParamTypes[paramIndex(impl, i)]
		if argType == paramType || types.IsSubtype(argType, paramType) {
			continue
		}
		path, ok := conv.FindConversion(argType, paramType)
		if !ok {
			return Match{}, false
		}
		m.TotalCost += path.TotalCost
		m.Conversion++
		if path.Lossy {
			m.AnyLossy = true
		}
	}
	return m, true
}

func paramIndex(impl *Implementation, argPos int) int {
	if impl.Variadic && argPos >= len(impl.ParamTypes)-1 {
		return len(impl.ParamTypes) - 1
	}
	return argPos
}

// moreSpecific reports whether a is at least as specific as b in every
// parameter position (each a.ParamTypes[i] is a subtype of or equal to
// b.ParamTypes[i]) and strictly more specific in at least one, per the
// partial order over Implementations (§4.9). Variadic parameters are
// compared positionally up to the shorter signature's length; a
// non-variadic Implementation is always considered more specific than a
// variadic one of the same matching length, since it commits to an
// exact arity.
func moreSpecific(types *typesystem.Registry, a, b *Implementation) bool {
	n := a.Arity()
	if b.Arity() < n {
		n = b.Arity()
	}
	strictlyMore := false
	for i := 0; i < n; i++ {
		pa, pb := a.ParamTypes[i], b.ParamTypes[i]
		if pa == pb {
			continue
		}
		if !types.IsSubtype(pa, pb) {
			return false
		}
		strictlyMore = true
	}
	if a.Variadic != b.Variadic {
		if !a.Variadic && b.Variadic {
			strictlyMore = true
		} else if a.Variadic && !b.Variadic {
			return false
		}
	}
	return strictlyMore
}

// Resolution is the outcome of specificity selection (§4.10 phase 4).
type Resolution struct {
	Unique     *Match
	Ambiguous  []*Match // populated only when no single Match dominates all others
	NoMatch    bool
	Candidates int // total candidates considered before filtering, for diagnostics
}

// selectMostSpecific ranks viable matches by the specificity partial
// order, breaking ties by (1) higher declared SpecificityRank, (2)
// total conversion cost (fewer, cheaper conversions preferred), and
// finally (3) a deterministic (module, name, ID) ordering so that
// otherwise-identical candidates always resolve the same way.
func selectMostSpecific(types *typesystem.Registry, matches []Match) Resolution {
	if len(matches) == 0 {
		return Resolution{NoMatch: true}
	}
	if len(matches) == 1 {
		m := matches[0]
		return Resolution{Unique: &m}
	}

	// A match is "dominated" if some other match is at least as
	// specific everywhere the dominator applies and the tie-break
	// chain doesn't favor the dominated one.
	best := make([]Match, len(matches))
	copy(best, matches)

	var winners []Match
	for i := range best {
		dominated := false
		for j := range best {
			if i == j {
				continue
			}
			if moreSpecific(types, best[j].Impl, best[i].Impl) {
				dominated = true
				break
			}
		}
		if !dominated {
			winners = append(winners, best[i])
		}
	}

	if len(winners) == 1 {
		return Resolution{Unique: &winners[0]}
	}

	// Tie-break: higher declared specificity rank first, then fewer
	// conversions (cheaper cost), then the deterministic
	// (module, name, ID) ordering.
	bestIdx := 0
	for i := 1; i < len(winners); i++ {
		if tieBreakLess(winners[i], winners[bestIdx]) {
			bestIdx = i
		}
	}
	clearWinner := true
	for i := range winners {
		if i == bestIdx {
			continue
		}
		if !tieBreakLess(winners[bestIdx], winners[i]) {
			clearWinner = false
			break
		}
	}
	if clearWinner {
		return Resolution{Unique: &winners[bestIdx]}
	}

	amb := make([]*Match, len(winners))
	for i := range winners {
		m := winners[i]
		amb[i] = &m
	}
	return Resolution{Ambiguous: amb}
}

func tieBreakLess(a, b Match) bool {
	if a.Impl.SpecificityRank != b.Impl.SpecificityRank {
		return a.Impl.SpecificityRank > b.Impl.SpecificityRank
	}
	if a.TotalCost != b.TotalCost {
		return a.TotalCost < b.TotalCost
	}
	if a.Impl.Module != b.Impl.Module {
		return a.Impl.Module < b.Impl.Module
	}
	if a.Impl.Name != b.Impl.Name {
		return a.Impl.Name < b.Impl.Name
	}
	return a.Impl.ID < b.Impl.ID
}
