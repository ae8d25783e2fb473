package astdb

// Snapshot is an immutable read view captured at commit time (§3.5). It
// does not copy Unit data; it holds the list of UnitIds committed as of
// the capture moment and borrows the owning ASTDB for lookups. Callers
// must not let a Snapshot outlive its ASTDB (§5, Ownership discipline).
type Snapshot struct {
	db    *ASTDB
	units []UnitId
}

// CreateSnapshot captures all Units committed so far.
func (db *ASTDB) CreateSnapshot() *Snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	ids := make([]UnitId, len(db.units))
	for i := range db.units {
		ids[i] = UnitId(i)
	}
	return &Snapshot{db: db, units: ids}
}

// Units returns the UnitIds visible through this snapshot, in the order
// they were committed.
func (s *Snapshot) Units() []UnitId {
	return s.units
}

// UnitView returns a read-only accessor scoped to one committed unit.
func (s *Snapshot) UnitView(id UnitId) UnitView {
	return UnitView{unit: s.db.GetUnit(id)}
}

// NodeCount sums node counts across every unit visible in this snapshot.
func (s *Snapshot) NodeCount() int {
	total := 0
	for _, id := range s.units {
		total += s.db.GetUnit(id).NodeCount()
	}
	return total
}

// UnitView exposes the Snapshot surface named in §3.5/§6 for a single
// Unit: node_count() and get_node(NodeId).
type UnitView struct {
	unit *Unit
}

func (v UnitView) NodeCount() int {
	return v.unit.NodeCount()
}

// GetNode returns the node at id and true, or the zero Node and false if
// id is out of range.
func (v UnitView) GetNode(id NodeId) (Node, bool) {
	if id < 0 || int(id) >= len(v.unit.nodes) {
		return Node{}, false
	}
	return v.unit.nodes[id], true
}

func (v UnitView) Children(n Node) []NodeId {
	return v.unit.Children(n)
}

func (v UnitView) Token(id TokenId) Token {
	return v.unit.Token(id)
}

func (v UnitView) Filename() string {
	return v.unit.Filename
}

func (v UnitView) RootNode() NodeId {
	return v.unit.RootNode
}
