package dispatch

// Scope is one nesting level of function visibility (module, function
// body, or block): an outer-chain walk over nested symbol tables, the
// same shape ordinary variable-lookup scoping uses, here applied to
// FunctionFamilies instead of value bindings (§4.7).
type Scope struct {
	outer    *Scope
	local    map[string]*FunctionFamily
	analyzer *SignatureAnalyzer
}

// ScopeManager owns the root (module) scope and the shared
// SignatureAnalyzer every nested Scope ultimately consults once a local
// shadow doesn't resolve a name.
type ScopeManager struct {
	analyzer *SignatureAnalyzer
	root     *Scope
}

// NewScopeManager returns a manager whose root scope consults
// analyzer directly.
func NewScopeManager(analyzer *SignatureAnalyzer) *ScopeManager {
	m := &ScopeManager{analyzer: analyzer}
	m.root = &Scope{local: make(map[string]*FunctionFamily), analyzer: analyzer}
	return m
}

// Root returns the module-level scope.
func (m *ScopeManager) Root() *Scope {
	return m.root
}

// Analyzer returns the shared SignatureAnalyzer backing every scope, for
// callers (the Register pipeline stage) that register top-level
// declarations before any per-call resolution happens.
func (m *ScopeManager) Analyzer() *SignatureAnalyzer {
	return m.analyzer
}

// Enter returns a new child scope nested under s.
func (s *Scope) Enter() *Scope {
	return &Scope{outer: s, local: make(map[string]*FunctionFamily), analyzer: s.analyzer}
}

// ShadowLocal registers a local override for name that is visible only
// within this scope and its descendants, without touching the shared
// SignatureAnalyzer. Used for function-local closures over a dispatched
// name.
func (s *Scope) ShadowLocal(name string, fam *FunctionFamily) {
	s.local[name] = fam
}

// LookupFunction walks from s outward, returning the first
// FunctionFamily found — a local shadow if one is registered at any
// enclosing scope, otherwise falling through to the shared
// SignatureAnalyzer's global registration (§4.7).
func (s *Scope) LookupFunction(name string) (*FunctionFamily, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if fam, ok := cur.local[name]; ok {
			return fam, ok
		}
	}
	fam, ok := s.analyzer.Family(name)
	return fam, ok
}

// Candidates resolves name to a FunctionFamily by LookupFunction and
// then narrows by call's arity exactly as SignatureAnalyzer.Candidates
// does for a global lookup.
func (s *Scope) Candidates(call CallSite) []*Implementation {
	fam, ok := s.LookupFunction(call.Name)
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
