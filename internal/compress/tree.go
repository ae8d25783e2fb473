package compress

// PredicateKind enumerates the decision tree's node predicates (§4.12).
type PredicateKind int

const (
	PredAlwaysTrue PredicateKind = iota
	PredAlwaysFalse
	PredTypeEquals
	PredTypeInSet
	PredBloomFilter
)

// Node is one predicate in the decision DAG. A leaf (Leaf != nil) holds
// the indices into a Table's Entries that match everything the path
// from the root to this node has established; an interior node
// branches to Then or Else depending on the predicate's evaluation
// against one argument position.
type Node struct {
	Predicate PredicateKind
	Position  int   // which call-site argument position this predicate inspects
	Operand   int   // dense type index, for TypeEquals
	Set       []int // dense type indices, for TypeInSet
	Filter    *Bloom

	Then *Node
	Else *Node
	Leaf []int // entry indices, only set on leaves
}

// Eval walks the tree for a call site's dense-encoded argument types,
// returning the matching entry indices at the leaf reached.
func (n *Node) Eval(denseArgs []int) []int {
	cur := n
	for cur.Leaf == nil {
		if cur.test(denseArgs) {
			cur = cur.Then
		} else {
			cur = cur.Else
		}
	}
	return cur.Leaf
}

func (n *Node) test(denseArgs []int) bool {
	switch n.Predicate {
	case PredAlwaysTrue:
		return true
	case PredAlwaysFalse:
		return false
	case PredTypeEquals:
		if n.Position >= len(denseArgs) {
			return false
		}
		return denseArgs[n.Position] == n.Operand
	case PredTypeInSet:
		if n.Position >= len(denseArgs) {
			return false
		}
		v := denseArgs[n.Position]
		for _, s := range n.Set {
			if s == v {
				return true
			}
		}
		return false
	case PredBloomFilter:
		if n.Position >= len(denseArgs) {
			return false
		}
		return n.Filter.MayContain(denseArgs[n.Position])
	default:
		return false
	}
}

// BuildLinearDecisionTree builds a simple, correct (not necessarily
// balanced) decision tree over a Table's entries by branching on
// position 0's type equality one value at a time, falling through to
// a catch-all leaf. It's the naive baseline the compressor falls back
// to; a cost-based tree builder that picks the most discriminating
// position first can replace this without changing Eval's contract.
//
// When any entry has a non-empty pattern, the chain is guarded by a
// root bloom_filter predicate (§4.12 step 4) over table.Bloom: a call
// whose position-0 argument type was never seen in this table is
// rejected in one MayContain check instead of walking every
// TypeEquals branch.
func BuildLinearDecisionTree(table *Table, positionCount int) *Node {
	catchAll := &Node{Leaf: []int{}}
	if len(table.Entries) == 0 {
		return catchAll
	}

	// Build the chain back-to-front so each branch's Else already
	// points at the next (or, for the last entry, the catch-all leaf).
	var next *Node = catchAll
	hasPositionalPattern := false
	for i := len(table.Entries) - 1; i >= 0; i-- {
		pattern := decodePatternDense(table, table.Entries[i])
		if len(pattern) == 0 {
			next = &Node{
				Predicate: PredAlwaysTrue,
				Then:      &Node{Leaf: []int{i}},
				Else:      next,
			}
			continue
		}
		hasPositionalPattern = true
		next = &Node{
			Predicate: PredTypeEquals,
			Position:  0,
			Operand:   pattern[0],
			Then:      &Node{Leaf: []int{i}},
			Else:      next,
		}
	}

	if hasPositionalPattern && table.Bloom != nil {
		next = &Node{
			Predicate: PredBloomFilter,
			Position:  0,
			Filter:    table.Bloom,
			Then:      next,
			Else:      catchAll,
		}
	}
	return next
}

func decodePatternDense(table *Table, d DeltaEntry) []int {
	base := table.Patterns.Pattern(d.PatternIdx)
	out := make([]int, len(base))
	for i := range base {
		out[i] = base[i] + int(d.Deltas[i])
	}
	return out
}
