package dispatch

import "sync"

// SignatureAnalyzer is the process-wide index of every registered
// Implementation, grouped into FunctionFamilies by name (§4.6). Writes
// (AddImplementation) are rare relative to the Candidates lookups the
// resolver performs per call site, so a single RWMutex guards the map
// the way typesystem.Registry guards its type list.
type SignatureAnalyzer struct {
	mu       sync.RWMutex
	families map[string]*FunctionFamily
	nextID   int
}

// NewSignatureAnalyzer returns an empty analyzer.
func NewSignatureAnalyzer() *SignatureAnalyzer {
	return &SignatureAnalyzer{families: make(map[string]*FunctionFamily)}
}

// AddImplementation registers a new overload and returns the
// Implementation with its assigned ID filled in. Registration is
// append-only: an existing Implementation is never removed, only
// shadowed by module-scoped lookup in the Scope Manager.
func (a *SignatureAnalyzer) AddImplementation(impl Implementation) *Implementation {
	a.mu.Lock()
	defer a.mu.Unlock()

	impl.ID = a.nextID
	a.nextID++

	fam, ok := a.families[impl.Name]
	if !ok {
		fam = newFunctionFamily(impl.Name)
		a.families[impl.Name] = fam
	}
	stored := &impl
	fam.add(stored)
	return stored
}

// Family returns the FunctionFamily for name, if any implementation has
// been registered under it.
func (a *SignatureAnalyzer) Family(name string) (*FunctionFamily, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fam, ok := a.families[name]
	return fam, ok
}

// Candidates returns every Implementation whose arity could possibly
// accept call.ArgTypes: an exact arity match, plus every variadic
// Implementation with Arity() <= len(call.ArgTypes). This is the
// signature-lookup phase (§4.10 phase 1) — no type compatibility has
// been checked yet, only shape.
func (a *SignatureAnalyzer) Candidates(call CallSite) []*Implementation {
	a.mu.RLock()
	defer a.mu.RUnlock()

	fam, ok := a.families[call.Name]
	if !ok {
		return nil
	}
	n := len(call.ArgTypes)
	var out []*Implementation
	out = append(out, fam.byArity[n]...)
	for _, v := range fam.variadic {
		if v.Arity() <= n {
			out = append(out, v)
		}
	}
	return out
}
