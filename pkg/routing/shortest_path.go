// Package routing computes source routes over a finished topology
// snapshot. The UI layer uses it to turn "send to node X" into the hop
// list a packet's routing header needs.
package routing

import (
	"container/list"

	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// ShortestPath finds a shortest route from start to end using
// bidirectional BFS, expanding one frontier level from each side per
// round. Interior hops are restricted to drones: clients and servers
// only ever appear as the two endpoints, because packets transit the
// drone mesh and terminate at the edge. Returns nil when no such route
// exists.
func ShortestPath(t *topology.Topology, start, end topology.NodeID) []topology.NodeID {
	if t.Kind(start).Kind == topology.KindNone || t.Kind(end).Kind == topology.KindNone {
		return nil
	}
	if start == end {
		return []topology.NodeID{start}
	}

	fwd := newFrontier(t, start)
	bwd := newFrontier(t, end)

	for fwd.queue.Len() > 0 || bwd.queue.Len() > 0 {
		if fwd.queue.Len() > 0 {
			if meet, ok := fwd.expand(bwd); ok {
				return joinPaths(meet, fwd, bwd)
			}
		}
		if bwd.queue.Len() > 0 {
			if meet, ok := bwd.expand(fwd); ok {
				return joinPaths(meet, fwd, bwd)
			}
		}
	}

	return nil
}

type frontier struct {
	topo    *topology.Topology
	queue   *list.List
	visited topology.NeighborSet
	parent  [topology.MaxNodes]topology.NodeID
}

func newFrontier(t *topology.Topology, origin topology.NodeID) *frontier {
	f := &frontier{topo: t, queue: list.New(), visited: topology.NewNeighborSet()}
	f.queue.PushBack(origin)
	f.visited.Add(origin)
	f.parent[origin] = origin
	return f
}

// expand processes one BFS level, returning the meeting node if this
// frontier reached a node the other one already visited.
func (f *frontier) expand(other *frontier) (topology.NodeID, bool) {
	levelSize := f.queue.Len()
	for i := 0; i < levelSize; i++ {
		current := f.queue.Remove(f.queue.Front()).(topology.NodeID)

		for _, neighbor := range f.topo.Neighbors(current).IDs() {
			if other.visited.Contains(neighbor) {
				if f.visited.Add(neighbor) {
					f.parent[neighbor] = current
				}
				return neighbor, true
			}
			// Only drones relay, so only drones may extend a path.
			if f.topo.Kind(neighbor).Kind != topology.KindDrone {
				continue
			}
			if f.visited.Add(neighbor) {
				f.parent[neighbor] = current
				f.queue.PushBack(neighbor)
			}
		}
	}

	return 0, false
}

// joinPaths stitches the two half-paths together at the meeting node,
// oriented from fwd's origin to bwd's origin.
func joinPaths(meet topology.NodeID, fwd, bwd *frontier) []topology.NodeID {
	var head []topology.NodeID
	for n := meet; ; n = fwd.parent[n] {
		head = append(head, n)
		if fwd.parent[n] == n {
			break
		}
	}
	// head is meet..start, flip it
	for i, j := 0, len(head)-1; i < j; i, j = i+1, j-1 {
		head[i], head[j] = head[j], head[i]
	}

	if bwd.visited.Contains(meet) {
		for n := bwd.parent[meet]; ; n = bwd.parent[n] {
			if n == meet {
				break
			}
			head = append(head, n)
			if bwd.parent[n] == n {
				break
			}
		}
	}

	return head
}
