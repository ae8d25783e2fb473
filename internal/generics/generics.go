// Package generics implements the Generic Dispatcher (§4.11): generic
// function signatures are monomorphized against concrete type
// arguments on first use, with the resulting instance cached by a hash
// of (constraints, type arguments) so repeat calls with the same
// instantiation reuse it instead of re-checking constraints.
package generics

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"

	"github.com/lattice-lang/astcore/internal/dispatch"
	"github.com/lattice-lang/astcore/internal/typesystem"
	"golang.org/x/sync/singleflight"
)

// GenericSignature is a function declared over one or more type
// parameters, each optionally bounded by a constraint (§3.6).
type GenericSignature struct {
	Name           string
	TypeParameters []string
	Constraints    []dispatch.Constraint
	ParamShape     []int // index into TypeParameters for each value parameter, or -1 for a concrete type
	ConcreteTypes  []typesystem.TypeId
}

// MonomorphizationId identifies one instantiation of a GenericSignature
// against concrete type arguments.
type MonomorphizationId int

// Instance is the result of monomorphizing a GenericSignature: a
// concrete Implementation the dispatch Resolver can match against like
// any hand-written overload.
type Instance struct {
	ID   MonomorphizationId
	Impl dispatch.Implementation
}

// Dispatcher monomorphizes GenericSignatures on demand and caches the
// result by instantiation key, deduplicating concurrent requests for
// the same (name, type args) pair with singleflight the way a
// request-coalescing cache would.
type Dispatcher struct {
	types *typesystem.Registry

	mu        sync.RWMutex
	instances map[string]*Instance
	nextID    MonomorphizationId

	group singleflight.Group
}

// NewDispatcher returns a Dispatcher bound to the shared Type Registry
// used for constraint checking.
func NewDispatcher(types *typesystem.Registry) *Dispatcher {
	return &Dispatcher{types: types, instances: make(map[string]*Instance)}
}

// ErrConstraintViolation reports which type parameter failed its bound.
type ErrConstraintViolation struct {
	Signature string
	TypeVar   string
	Bound     string
}

func (e *ErrConstraintViolation) Error() string {
	return fmt.Sprintf("generics: %s: type parameter %s does not satisfy bound %s", e.Signature, e.TypeVar, e.Bound)
}

// instantiationKey deterministically hashes a signature name, its
// constraint set, and the concrete type arguments, so identical
// instantiations always land on the same cache entry regardless of
// call order.
func instantiationKey(sig GenericSignature, typeArgs []typesystem.TypeId) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|", sig.Name)
	for _, c := range sig.Constraints {
		fmt.Fprintf(h, "%s:%s|", c.TypeVar, c.Bound)
	}
	for _, t := range typeArgs {
		fmt.Fprintf(h, "%d,", t)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// checkConstraints reports the first type parameter (if any) whose
// bound the supplied type argument fails. satisfies is provided by the
// caller (the resolver knows how trait/bound satisfaction is modeled);
// a nil satisfies always passes, for signatures with no constraints.
func checkConstraints(sig GenericSignature, typeArgs []typesystem.TypeId, satisfies func(typeArg typesystem.TypeId, bound string) bool) error {
	if satisfies == nil {
		return nil
	}
	byVar := make(map[string]typesystem.TypeId)
	for i, name := range sig.TypeParameters {
		if i < len(typeArgs) {
			byVar[name] = typeArgs[i]
		}
	}
	for _, c := range sig.Constraints {
		arg, ok := byVar[c.TypeVar]
		if !ok {
			continue
		}
		if !satisfies(arg, c.Bound) {
			return &ErrConstraintViolation{Signature: sig.Name, TypeVar: c.TypeVar, Bound: c.Bound}
		}
	}
	return nil
}

// Monomorphize produces (or returns the cached) Instance for sig
// applied to typeArgs, after checking every constraint via satisfies.
// Concurrent calls requesting the identical instantiation are
// coalesced into a single build.
func (d *Dispatcher) Monomorphize(sig GenericSignature, typeArgs []typesystem.TypeId, satisfies func(typeArg typesystem.TypeId, bound string) bool) (*Instance, error) {
	key := instantiationKey(sig, typeArgs)

	d.mu.RLock()
	if inst, ok := d.instances[key]; ok {
		d.mu.RUnlock()
		return inst, nil
	}
	d.mu.RUnlock()

	v, err, _ := d.group.Do(key, func() (interface{}, error) {
		d.mu.RLock()
		if inst, ok := d.instances[key]; ok {
			d.mu.RUnlock()
			return inst, nil
		}
		d.mu.RUnlock()

		if err := checkConstraints(sig, typeArgs, satisfies); err != nil {
			return nil, err
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		id := d.nextID
		d.nextID++

		params := substituteParams(sig, typeArgs)
		inst := &Instance{
			ID: id,
			Impl: dispatch.Implementation{
				Name:       sig.Name,
				ParamTypes: params,
			},
		}
		d.instances[key] = inst
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Instance), nil
}

// substituteParams replaces each generic ParamShape slot with its
// concrete type argument, leaving already-concrete positions alone.
func substituteParams(sig GenericSignature, typeArgs []typesystem.TypeId) []typesystem.TypeId {
	out := make([]typesystem.TypeId, len(sig.ParamShape))
	for i, slot := range sig.ParamShape {
		if slot < 0 {
			out[i] = sig.ConcreteTypes[i]
			continue
		}
		out[i] = typeArgs[slot]
	}
	return out
}

// inferSingleParameter is the simple single-type-parameter inference
// fallback (§4.11): when a GenericSignature has exactly one type
// parameter and no explicit type arguments were supplied at the call
// site, infer it from the first value parameter position bound to
// that parameter.
func inferSingleParameter(sig GenericSignature, argTypes []typesystem.TypeId) ([]typesystem.TypeId, bool) {
	if len(sig.TypeParameters) != 1 {
		return nil, false
	}
	for i, slot := range sig.ParamShape {
		if slot == 0 && i < len(argTypes) {
			return []typesystem.TypeId{argTypes[i]}, true
		}
	}
	return nil, false
}

// ResolveGenericDispatch implements §4.11's resolution order: look for
// an already-monomorphized Instance matching argTypes' inferred type
// arguments; if inference succeeds but no instance exists yet,
// monomorphize one; otherwise report failure.
func (d *Dispatcher) ResolveGenericDispatch(sig GenericSignature, argTypes []typesystem.TypeId, explicitTypeArgs []typesystem.TypeId, satisfies func(typesystem.TypeId, string) bool) (*Instance, error) {
	typeArgs := explicitTypeArgs
	if len(typeArgs) == 0 {
		inferred, ok := inferSingleParameter(sig, argTypes)
		if !ok {
			return nil, fmt.Errorf("generics: %s: cannot infer type arguments from call site", sig.Name)
		}
		typeArgs = inferred
	}
	return d.Monomorphize(sig, typeArgs, satisfies)
}

// Instances returns every monomorphized instance sorted by ID, for
// diagnostics and hot-reload consistency checks.
func (d *Dispatcher) Instances() []*Instance {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Instance, 0, len(d.instances))
	for _, inst := range d.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
