package typesystem

import (
	"container/heap"
	"sync"
)

// ConversionEdge is one directed conversion TypeId -> TypeId (§4.8).
type ConversionEdge struct {
	To       TypeId
	Cost     uint32
	Lossy    bool
	Method   string
	Template string
}

// ConversionPath is the result of FindConversion: an ordered sequence of
// edges from the query's `from` to `to`, with their costs summed.
type ConversionPath struct {
	Edges     []ConversionEdge
	TotalCost uint32
	Lossy     bool // true if any edge on the path is lossy
}

type pathKey struct {
	from, to TypeId
}

// ConversionRegistry is a directed multigraph of TypeId -> TypeId
// conversions (§4.8). find_conversion returns the minimum-cost
// non-lossy path, falling back to the minimum-cost lossy path if none
// exists. Paths are cached by (from, to).
type ConversionRegistry struct {
	mu    sync.RWMutex
	edges map[TypeId][]ConversionEdge
	cache map[pathKey]*ConversionPath
}

// NewConversionRegistry returns an empty registry.
func NewConversionRegistry() *ConversionRegistry {
	return &ConversionRegistry{
		edges: make(map[TypeId][]ConversionEdge),
		cache: make(map[pathKey]*ConversionPath),
	}
}

// AddConversion registers a directed edge from -> to. Adding an edge
// invalidates the path cache, since a new edge can only ever improve
// (never worsen) some path's cost.
func (c *ConversionRegistry) AddConversion(from TypeId, edge ConversionEdge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edges[from] = append(c.edges[from], edge)
	c.cache = make(map[pathKey]*ConversionPath)
}

// FindConversion returns the minimum-cost path from `from` to `to`,
// preferring an all-non-lossy path; if none exists, it falls back to
// the minimum-cost path allowing lossy edges. Costs accumulate
// additively along the path (§4.8). Returns (nil, false) if `to` is
// unreachable from `from` at all.
func (c *ConversionRegistry) FindConversion(from, to TypeId) (*ConversionPath, bool) {
	if from == to {
		return &ConversionPath{}, true
	}

	key := pathKey{from, to}
	c.mu.RLock()
	if cached, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return cloneCachedPath(cached)
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.cache[key]; ok {
		return cloneCachedPath(cached)
	}

	if p := c.dijkstra(from, to, false); p != nil {
		c.cache[key] = p
		return cloneCachedPath(p)
	}
	if p := c.dijkstra(from, to, true); p != nil {
		c.cache[key] = p
		return cloneCachedPath(p)
	}
	c.cache[key] = nil
	return nil, false
}

func cloneCachedPath(p *ConversionPath) (*ConversionPath, bool) {
	if p == nil {
		return nil, false
	}
	cp := *p
	cp.Edges = append([]ConversionEdge(nil), p.Edges...)
	return &cp, true
}

// heapItem is one frontier entry in the Dijkstra search.
type heapItem struct {
	node  TypeId
	cost  uint32
	path  []ConversionEdge
	lossy bool
}

type pqueue []*heapItem

func (q pqueue) Len() int            { return len(q) }
func (q pqueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q pqueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pqueue) Push(x interface{}) { *q = append(*q, x.(*heapItem)) }
func (q *pqueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// dijkstra finds the minimum-cost path from -> to. If allowLossy is
// false, lossy edges are excluded from the search entirely (so a path
// using one is simply never found in that pass).
func (c *ConversionRegistry) dijkstra(from, to TypeId, allowLossy bool) *ConversionPath {
	pq := &pqueue{{node: from, cost: 0}}
	heap.Init(pq)
	best := make(map[TypeId]uint32)
	best[from] = 0

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*heapItem)
		if cur.node == to {
			anyLossy := false
			for _, e := range cur.path {
				if e.Lossy {
					anyLossy = true
				}
			}
			return &ConversionPath{Edges: cur.path, TotalCost: cur.cost, Lossy: anyLossy}
		}
		if known, ok := best[cur.node]; ok && cur.cost > known {
			continue
		}
		for _, e := range c.edges[cur.node] {
			if e.Lossy && !allowLossy {
				continue
			}
			nextCost := cur.cost + e.Cost
			if known, ok := best[e.To]; ok && known <= nextCost {
				continue
			}
			best[e.To] = nextCost
			nextPath := append(append([]ConversionEdge(nil), cur.path...), e)
			heap.Push(pq, &heapItem{node: e.To, cost: nextCost, path: nextPath})
		}
	}
	return nil
}
