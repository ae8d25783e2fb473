package astdb

// Node is the columnar node record (§3.3): kind, the token span it
// covers, and a [ChildLo, ChildHi) window into the owning Unit's edges
// column. child_lo..child_hi indexes into edges, not nodes.
type Node struct {
	Kind       NodeKind
	FirstToken TokenId
	LastToken  TokenId
	ChildLo    EdgeIndex
	ChildHi    EdgeIndex
}

// NumChildren returns the node's direct child count.
func (n Node) NumChildren() int {
	return int(n.ChildHi - n.ChildLo)
}
