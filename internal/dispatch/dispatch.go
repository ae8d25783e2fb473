// Package dispatch implements the Multiple Dispatch Engine's Signature
// Analyzer, Specificity Analyzer, Scope Manager, and Semantic Resolver
// (§4.6-4.10): a function can have many Implementations sharing a
// name and arity (a FunctionFamily), and resolving a CallSite walks
// signature lookup, type filtering, conversion expansion, and
// specificity selection in that fixed order.
package dispatch

import (
	"github.com/lattice-lang/astcore/internal/diagnostics"
	"github.com/lattice-lang/astcore/internal/typesystem"
)

// EffectMask is a bitmask of declared side-effect categories an
// Implementation may perform; the Effect System (§6) is the only
// consumer that interprets individual bits, so dispatch only carries
// the mask through untouched.
type EffectMask uint64

// Constraint names a single requirement an Implementation's generic
// parameter must satisfy (e.g. a trait bound). Constraint checking
// itself belongs to the Generic Dispatcher; the dispatch package only
// carries constraints through so generics can consult them.
type Constraint struct {
	TypeVar string
	Bound   string
}

// Implementation is one registered overload of a function name (§3.6).
// ID is assigned in registration order and is the final, deterministic
// tie-breaker when every other ranking ties. SpecificityRank is a
// declared priority (higher wins) authors can use to break specificity
// ties explicitly rather than relying on the partial order alone; it
// defaults to zero when nothing declares one.
type Implementation struct {
	ID              int
	Module          string
	Name            string
	ParamTypes      []typesystem.TypeId
	ReturnType      typesystem.TypeId
	Effects         EffectMask
	Variadic        bool
	Constraints     []Constraint
	SourceSpan      diagnostics.Span
	SpecificityRank int
}

// Arity is the number of fixed parameters an Implementation declares.
// A variadic Implementation matches any call with at least Arity args.
func (impl Implementation) Arity() int {
	return len(impl.ParamTypes)
}

// FunctionFamily groups every Implementation sharing a name, regardless
// of arity; the Signature Analyzer indexes families by (name, arity) so
// Candidates can narrow quickly before the more expensive type checks.
type FunctionFamily struct {
	Name            string
	byArity         map[int][]*Implementation
	variadic        []*Implementation
	implementations []*Implementation
}

func newFunctionFamily(name string) *FunctionFamily {
	return &FunctionFamily{
		Name:    name,
		byArity: make(map[int][]*Implementation),
	}
}

func (f *FunctionFamily) add(impl *Implementation) {
	f.implementations = append(f.implementations, impl)
	if impl.Variadic {
		f.variadic = append(f.variadic, impl)
		return
	}
	f.byArity[impl.Arity()] = append(f.byArity[impl.Arity()], impl)
}

// CallSite is a concrete application of a function name to argument
// types at a point in the program (§3.6).
type CallSite struct {
	Module   string
	Name     string
	ArgTypes []typesystem.TypeId
}
