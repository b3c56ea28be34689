package topology

// Topology is the full node-kind-plus-adjacency snapshot of the mesh.
//
// It is a fixed-size array with one slot per possible NodeID. Slot i is
// KindNone unless i is a declared node, in which case the slot carries
// the node's kind (with variant) and its neighbor set. The initializer
// fills the snapshot while spawning and wiring nodes; after assembly it
// is read-only and shared with the controller and the UI.
type Topology struct {
	kinds     [MaxNodes]NodeKind
	neighbors [MaxNodes]NeighborSet
}

// New returns an empty topology with every slot set to KindNone.
func New() *Topology {
	t := &Topology{}
	for i := range t.neighbors {
		t.neighbors[i] = NewNeighborSet()
	}
	return t
}

// SetKind records the kind (with variant data) for id.
func (t *Topology) SetKind(id NodeID, nk NodeKind) {
	t.kinds[id] = nk
}

// Kind returns the kind recorded for id; KindNone if id is not a node.
func (t *Topology) Kind(id NodeID) NodeKind {
	return t.kinds[id]
}

// AddNeighbor records the directed edge id -> neighbor. Pure
// bookkeeping: the runtime wiring happens over command channels.
func (t *Topology) AddNeighbor(id, neighbor NodeID) {
	t.neighbors[id].Add(neighbor)
}

// Neighbors returns the neighbor set of id.
func (t *Topology) Neighbors(id NodeID) NeighborSet {
	return t.neighbors[id]
}

// Nodes returns the IDs of all declared nodes in ascending order.
func (t *Topology) Nodes() []NodeID {
	var out []NodeID
	for i := range t.kinds {
		if t.kinds[i].Kind != KindNone {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// Len returns the number of declared nodes.
func (t *Topology) Len() int {
	n := 0
	for i := range t.kinds {
		if t.kinds[i].Kind != KindNone {
			n++
		}
	}
	return n
}
