package validation

import (
	"container/list"

	"github.com/RustRoveri/network-initializer/pkg/config"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// graph is the adjacency representation used by the whole-graph checks:
// one fixed-capacity neighbor set per possible NodeID. It is built once
// per Validate call and reused by every traversal.
type graph [topology.MaxNodes]topology.NeighborSet

// buildGraph folds every declared edge of the config into a graph.
func buildGraph(cfg *config.Config) *graph {
	var g graph
	for i := range g {
		g[i] = topology.NewNeighborSet()
	}
	for _, drone := range cfg.Drones {
		for _, id := range drone.Connected {
			g[drone.ID].Add(id)
		}
	}
	for _, client := range cfg.Clients {
		for _, id := range client.Connected {
			g[client.ID].Add(id)
		}
	}
	for _, server := range cfg.Servers {
		for _, id := range server.Connected {
			g[server.ID].Add(id)
		}
	}
	return &g
}

// reachable runs a breadth-first traversal from start and returns the
// number of visited nodes. When restrict is non-nil the traversal never
// steps into an ID outside restrict: edges to excluded nodes are
// skipped entirely, not followed for one hop.
func (g *graph) reachable(start topology.NodeID, restrict *topology.NeighborSet) int {
	visited := topology.NewNeighborSet()
	visited.Add(start)
	n := 0

	queue := list.New()
	queue.PushBack(start)
	for queue.Len() > 0 {
		node := queue.Remove(queue.Front()).(topology.NodeID)
		n++
		for _, neighbor := range g[node].IDs() {
			if restrict != nil && !restrict.Contains(neighbor) {
				continue
			}
			if visited.Add(neighbor) {
				queue.PushBack(neighbor)
			}
		}
	}
	return n
}
