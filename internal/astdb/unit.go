package astdb

import (
	"github.com/lattice-lang/astcore/internal/diagnostics"
)

// Unit is a per-source arena (§3.4): it owns tokens, nodes, edges, and
// diagnostics for one file. Before commit it is exclusively owned by its
// parser; after commit it is immutable and safely shareable (§5).
type Unit struct {
	Filename string
	Source   string

	tokens []Token
	nodes  []Node
	edges  []NodeId

	Diagnostics *diagnostics.Engine

	// RootNode is the source_file node once the parser finishes; -1
	// until then. Node ordering invariant (§3.3) requires it be the
	// last node in the column.
	RootNode NodeId

	committed bool
}

// NewUnit allocates an empty arena for filename/source. Not yet committed
// to any ASTDB.
func NewUnit(filename, source string) *Unit {
	return &Unit{
		Filename:    filename,
		Source:      source,
		Diagnostics: diagnostics.NewEngine(),
		RootNode:    NoNodeId,
	}
}

// AddToken appends tok to the token column and returns its TokenId.
func (u *Unit) AddToken(tok Token) TokenId {
	id := TokenId(len(u.tokens))
	u.tokens = append(u.tokens, tok)
	return id
}

// TokenCount reports the number of tokens in the column.
func (u *Unit) TokenCount() int { return len(u.tokens) }

// Token returns the token at id. Panics if id is out of range: every
// TokenId handed to a caller was produced by AddToken on this same Unit.
func (u *Unit) Token(id TokenId) Token {
	return u.tokens[id]
}

// NodeCount reports the number of nodes in the column.
func (u *Unit) NodeCount() int { return len(u.nodes) }

// Node returns the node at id.
func (u *Unit) Node(id NodeId) Node {
	return u.nodes[id]
}

// Children returns the direct child NodeIds of n, in syntactic order.
func (u *Unit) Children(n Node) []NodeId {
	return u.edges[n.ChildLo:n.ChildHi]
}

// EmitNode appends edges for each child (in order) and then a new Node
// referencing that edge window, enforcing the ordering invariants of
// §3.3: every child id must be strictly less than the new node's own
// index (a node is never its own ancestor; a parent's index exceeds all
// descendants').
func (u *Unit) EmitNode(kind NodeKind, first, last TokenId, children ...NodeId) NodeId {
	newID := NodeId(len(u.nodes))
	lo := EdgeIndex(len(u.edges))
	for _, c := range children {
		if c >= newID {
			panic("astdb: child node id must precede its parent")
		}
		u.edges = append(u.edges, c)
	}
	hi := EdgeIndex(len(u.edges))
	u.nodes = append(u.nodes, Node{Kind: kind, FirstToken: first, LastToken: last, ChildLo: lo, ChildHi: hi})
	return newID
}

// RotateWhenRegions implements the postfix when/unless disambiguation
// rule (§4.4.3): the statement region [lo, mid) was parsed before the
// condition region [mid, hi); this swaps their physical position in the
// node column so the condition precedes the statement in node order,
// remapping any internal edges that reference nodes inside the rotated
// span. Returns the new (condRoot, stmtRoot) node ids, each the last
// node of its (now relocated) region, for the caller to wire as the
// postfix node's two children.
func (u *Unit) RotateWhenRegions(lo, mid, hi NodeId) (condRoot, stmtRoot NodeId) {
	if !(lo <= mid && mid <= hi && int(hi) <= len(u.nodes)) {
		panic("astdb: invalid rotation bounds")
	}
	stmtLen := int(mid - lo)
	condLen := int(hi - mid)

	stmtRegion := append([]Node(nil), u.nodes[lo:mid]...)
	condRegion := append([]Node(nil), u.nodes[mid:hi]...)

	// Remap every edge value that falls inside [lo, hi): stmt-region
	// indices shift forward by condLen, cond-region indices shift
	// backward by stmtLen. No edge outside the region's own subtrees can
	// reference into [lo, hi) (children are always emitted, hence
	// indexed, before their parents), so a full scan is safe.
	remap := func(id NodeId) NodeId {
		switch {
		case id >= lo && id < mid:
			return id + NodeId(condLen)
		case id >= mid && id < hi:
			return id - NodeId(stmtLen)
		default:
			return id
		}
	}
	for i := range u.edges {
		u.edges[i] = remap(u.edges[i])
	}

	// Physically swap: cond region first, then stmt region.
	copy(u.nodes[int(lo):int(lo)+condLen], condRegion)
	copy(u.nodes[int(lo)+condLen:int(hi)], stmtRegion)

	condRoot = lo + NodeId(condLen) - 1
	stmtRoot = hi - 1
	return condRoot, stmtRoot
}

// DiscardTrailingNodes truncates the node and edge columns back to the
// given watermark, used by parser error recovery to drop a failed
// top-level declaration's partial nodes so they are retained in memory
// (per §4.4.4, "partial nodes/edges... are retained but not reachable")
// only if the caller chooses to keep them; DiscardTrailingNodes is the
// alternative for callers that prefer not to leak unreachable nodes.
func (u *Unit) DiscardTrailingNodes(nodeWatermark int, edgeWatermark int) {
	u.nodes = u.nodes[:nodeWatermark]
	u.edges = u.edges[:edgeWatermark]
}

// Watermarks returns the current (nodeCount, edgeCount), for callers
// that want to snapshot-and-possibly-discard around a speculative parse.
func (u *Unit) Watermarks() (int, int) {
	return len(u.nodes), len(u.edges)
}

// Finalize records the committed root and marks the unit ready to be
// installed into an ASTDB. Idempotent.
func (u *Unit) Finalize(root NodeId) {
	u.RootNode = root
}

// ValidateInvariants re-checks the structural invariants from §3.3 and
// §8 (testable properties 1-2) over the finished column. Intended for
// tests and debug builds, not the parser's steady-state hot path.
func (u *Unit) ValidateInvariants() []string {
	var problems []string
	for i, n := range u.nodes {
		for _, c := range u.edges[n.ChildLo:n.ChildHi] {
			if int(c) >= i {
				problems = append(problems, "node references non-preceding child")
			}
		}
		if n.FirstToken > n.LastToken && n.FirstToken != NoTokenId {
			problems = append(problems, "node has first_token > last_token")
		}
		for _, c := range u.edges[n.ChildLo:n.ChildHi] {
			child := u.nodes[c]
			if child.FirstToken < n.FirstToken || child.LastToken > n.LastToken {
				problems = append(problems, "child token span escapes parent span")
			}
		}
	}
	return problems
}
