package topology

import "github.com/bits-and-blooms/bitset"

// NeighborSet is a fixed-capacity set of NodeIDs backed by a bitset.
//
// Capacity is always MaxNodes, so membership tests and inserts are O(1)
// and iteration visits IDs in ascending order. The zero value is not
// usable; construct with NewNeighborSet.
type NeighborSet struct {
	bits *bitset.BitSet
}

// NewNeighborSet returns an empty set with capacity MaxNodes.
func NewNeighborSet() NeighborSet {
	return NeighborSet{bits: bitset.New(MaxNodes)}
}

// Add inserts id into the set. Returns false if id was already present.
func (ns NeighborSet) Add(id NodeID) bool {
	if ns.bits.Test(uint(id)) {
		return false
	}
	ns.bits.Set(uint(id))
	return true
}

// Contains reports whether id is in the set.
func (ns NeighborSet) Contains(id NodeID) bool {
	return ns.bits.Test(uint(id))
}

// Len returns the number of IDs in the set.
func (ns NeighborSet) Len() int {
	return int(ns.bits.Count())
}

// IDs returns the members in ascending order.
func (ns NeighborSet) IDs() []NodeID {
	out := make([]NodeID, 0, ns.Len())
	for i, ok := ns.bits.NextSet(0); ok; i, ok = ns.bits.NextSet(i + 1) {
		out = append(out, NodeID(i))
	}
	return out
}

// First returns the smallest member of the set. The second return is
// false when the set is empty.
func (ns NeighborSet) First() (NodeID, bool) {
	i, ok := ns.bits.NextSet(0)
	return NodeID(i), ok
}

// Clone returns an independent copy of the set.
func (ns NeighborSet) Clone() NeighborSet {
	return NeighborSet{bits: ns.bits.Clone()}
}
