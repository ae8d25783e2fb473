package typesystem

import (
	"sync"

	"github.com/lattice-lang/astcore/internal/interner"
)

// Registry is the Type Registry (§4.5): append-only type identities
// plus a directed subtype adjacency list, with the transitive closure
// computed lazily and cached. Shared process-wide per §5, guarded by a
// single RWMutex since writes (registrations) are rare relative to the
// is_subtype reads the resolver performs on every call site.
type Registry struct {
	mu    sync.RWMutex
	types []TypeInfo

	// closureCache[a] is the set of TypeIds reachable from a by
	// directed subtype edges, memoized the first time is_subtype (or
	// AllSupertypes) needs it. Invalidated wholesale on every new
	// registration, since a new type can only ever ADD edges (the
	// registry is append-only) and therefore can only grow existing
	// reachable sets — but since a is unrelated to which new nodes
	// reference it, the simplest correct policy is to drop the whole
	// cache on write.
	closureCache map[TypeId]map[TypeId]bool
	byName       map[interner.StrId]TypeId
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		closureCache: make(map[TypeId]map[TypeId]bool),
		byName:       make(map[interner.StrId]TypeId),
	}
}

// RegisterType appends a new TypeInfo and returns its TypeId. The
// registry never de-registers a type (§4.5).
func (r *Registry) RegisterType(name interner.StrId, kind Kind, subtypeOf ...TypeId) TypeId {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := TypeId(len(r.types))
	r.types = append(r.types, TypeInfo{ID: id, Name: name, Kind: kind, SubtypeOf: append([]TypeId(nil), subtypeOf...)})
	r.byName[name] = id
	r.closureCache = make(map[TypeId]map[TypeId]bool) // invalidate
	return id
}

// ResolveByName looks up a previously registered type by its interned
// name, for callers (the Register pipeline stage) that only have a
// type-annotation identifier on hand.
func (r *Registry) ResolveByName(name interner.StrId) (TypeId, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	return id, ok
}

// Lookup returns the TypeInfo for id.
func (r *Registry) Lookup(id TypeId) TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[id]
}

// Count reports how many types are registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// IsSubtype reports whether b is reachable from a by directed edges in
// the subtype graph (§4.5). Equality is identity: a type is trivially a
// subtype of itself.
func (r *Registry) IsSubtype(a, b TypeId) bool {
	if a == b {
		return true
	}
	reachable := r.reachableFrom(a)
	return reachable[b]
}

func (r *Registry) reachableFrom(a TypeId) map[TypeId]bool {
	r.mu.RLock()
	if cached, ok := r.closureCache[a]; ok {
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.closureCache[a]; ok {
		return cached
	}

	visited := make(map[TypeId]bool)
	var visit func(TypeId)
	visit = func(t TypeId) {
		if visited[t] {
			return
		}
		visited[t] = true
		for _, parent := range r.types[t].SubtypeOf {
			visit(parent)
		}
	}
	visit(a)
	delete(visited, a) // is_subtype only cares about strict ancestors for b != a
	r.closureCache[a] = visited
	return visited
}

// AllSupertypes returns every TypeId that a is (transitively) a subtype
// of, not including a itself.
func (r *Registry) AllSupertypes(a TypeId) []TypeId {
	reachable := r.reachableFrom(a)
	out := make([]TypeId, 0, len(reachable))
	for t := range reachable {
		out = append(out, t)
	}
	return out
}
