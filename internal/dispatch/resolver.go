package dispatch

import "github.com/lattice-lang/astcore/internal/typesystem"

// Resolver runs the four-phase Semantic Resolver pipeline (§4.10):
// signature lookup, type filtering, conversion expansion, and
// specificity selection. It is stateless beyond the registries it
// reads from, so a single Resolver can safely serve concurrent
// resolutions once its registries are populated.
type Resolver struct {
	Types       *typesystem.Registry
	Conversions *typesystem.ConversionRegistry
}

// NewResolver builds a Resolver over shared, already-populated
// registries.
func NewResolver(types *typesystem.Registry, conversions *typesystem.ConversionRegistry) *Resolver {
	return &Resolver{Types: types, Conversions: conversions}
}

// Resolve runs the pipeline for one CallSite against the candidates
// visible from scope:
//
//  1. signature lookup: arity-filtered candidates from the scope chain
//  2. type filtering + 3. conversion expansion: each candidate is
//     checked parameter-by-parameter, direct subtyping first and a
//     Conversion Registry path search otherwise; a candidate with any
//     unconvertible parameter is dropped
//  4. specificity selection: the surviving candidates are ranked by
//     the specificity partial order, then by conversion cost, then by
//     a deterministic ID ordering
func (r *Resolver) Resolve(scope *Scope, call CallSite) Resolution {
	candidates := scope.Candidates(call)
	if len(candidates) == 0 {
		return Resolution{NoMatch: true}
	}

	var matches []Match
	for _, impl := range candidates {
		if impl.Variadic {
			if len(call.ArgTypes) < impl.Arity()-1 {
				continue
			}
		} else if len(call.ArgTypes) != impl.Arity() {
			continue
		}
		m, ok := tryMatch(impl, call, r.Types, r.Conversions)
		if ok {
			matches = append(matches, m)
		}
	}

	res := selectMostSpecific(r.Types, matches)
	res.Candidates = len(candidates)
	return res
}
