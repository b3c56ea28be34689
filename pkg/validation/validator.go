// Package validation checks a parsed network configuration against the
// graph invariants that must hold before any node is spawned.
//
// Validate is pure and fail-fast: it never mutates its input, reports
// the first violated invariant only, and runs in O(n + m) time for n
// nodes and m edges by building the adjacency bit-sets once and reusing
// them for every whole-graph check.
package validation

import (
	"fmt"

	"github.com/RustRoveri/network-initializer/pkg/config"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// Validate checks every graph invariant of the configuration, in order:
// per-node structural checks in declaration order (interleaved with the
// global duplicate-ID check), the cross-kind neighbor-kind check,
// bidirectionality, global connectivity, and drone-subgraph
// connectivity. It returns nil when all invariants hold and a
// [*Error] naming the violated rule and the offending node IDs
// otherwise.
func Validate(cfg *config.Config) error {
	nodeIDs := topology.NewNeighborSet()

	for _, drone := range cfg.Drones {
		if err := validateDrone(drone); err != nil {
			return err
		}
		if !nodeIDs.Add(drone.ID) {
			return duplicateID(drone.ID)
		}
	}
	droneIDs := nodeIDs.Clone()
	nDrones := droneIDs.Len()

	for _, client := range cfg.Clients {
		if err := validateClient(client); err != nil {
			return err
		}
		if !nodeIDs.Add(client.ID) {
			return duplicateID(client.ID)
		}
	}

	for _, server := range cfg.Servers {
		if err := validateServer(server); err != nil {
			return err
		}
		if !nodeIDs.Add(server.ID) {
			return duplicateID(server.ID)
		}
	}

	if err := validateNeighborsAreDrones(cfg, droneIDs); err != nil {
		return err
	}

	g := buildGraph(cfg)
	if err := validateBidirectional(g, nodeIDs); err != nil {
		return err
	}
	if err := validateConnected(g, nodeIDs, cfg.Len()); err != nil {
		return err
	}
	return validateDroneMesh(g, droneIDs, nDrones)
}

// ValidateFile loads the configuration at path and validates it,
// returning the parsed Config only when both steps succeed.
func ValidateFile(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func duplicateID(id topology.NodeID) *Error {
	return violation(RuleDuplicateID,
		fmt.Sprintf("duplicate node ID found: [%d]", id), id)
}

// validateDrone checks the drone's PDR bounds and scans its neighbor
// list once for self-loops and duplicates. O(degree).
func validateDrone(drone config.Drone) error {
	if drone.PDR < 0 || drone.PDR > 1 {
		return violation(RulePDRRange,
			fmt.Sprintf("invalid PDR for drone [%d]: %v", drone.ID, drone.PDR), drone.ID)
	}
	return validateNeighborList("drone", drone.ID, drone.Connected)
}

// validateClient checks the client's degree bounds and its neighbor
// list. O(degree).
func validateClient(client config.Client) error {
	if len(client.Connected) == 0 {
		return violation(RuleClientDegree,
			fmt.Sprintf("client [%d] is connected to 0 drones", client.ID), client.ID)
	}
	if len(client.Connected) > 2 {
		return violation(RuleClientDegree,
			fmt.Sprintf("client [%d] has more than 2 neighbors", client.ID), client.ID)
	}
	return validateNeighborList("client", client.ID, client.Connected)
}

// validateServer checks the server's degree bound and its neighbor
// list. O(degree).
func validateServer(server config.Server) error {
	if len(server.Connected) < 2 {
		return violation(RuleServerDegree,
			fmt.Sprintf("server [%d] has less than 2 neighbors", server.ID), server.ID)
	}
	return validateNeighborList("server", server.ID, server.Connected)
}

// validateNeighborList detects self-loops and duplicate entries with a
// scratch bit-set, in a single pass over the list.
func validateNeighborList(kind string, id topology.NodeID, connected []topology.NodeID) error {
	seen := topology.NewNeighborSet()
	for _, neighbor := range connected {
		if neighbor == id {
			return violation(RuleSelfLoop,
				fmt.Sprintf("%s [%d] is connected to itself", kind, id), id)
		}
		if !seen.Add(neighbor) {
			return violation(RuleDuplicateNeighbor,
				fmt.Sprintf("%s [%d] has duplicate neighbor [%d]", kind, id, neighbor), id, neighbor)
		}
	}
	return nil
}

// validateNeighborsAreDrones requires every neighbor of a client or
// server to be a declared drone ID.
func validateNeighborsAreDrones(cfg *config.Config, droneIDs topology.NeighborSet) error {
	for _, client := range cfg.Clients {
		for _, id := range client.Connected {
			if !droneIDs.Contains(id) {
				return violation(RuleNeighborKind,
					fmt.Sprintf("client [%d] is connected to [%d], which is not a drone",
						client.ID, id), client.ID, id)
			}
		}
	}
	for _, server := range cfg.Servers {
		for _, id := range server.Connected {
			if !droneIDs.Contains(id) {
				return violation(RuleNeighborKind,
					fmt.Sprintf("server [%d] is connected to [%d], which is not a drone",
						server.ID, id), server.ID, id)
			}
		}
	}
	return nil
}

// validateBidirectional requires every neighbor to exist as a declared
// node and to point back: edge (a, b) implies edge (b, a).
func validateBidirectional(g *graph, nodeIDs topology.NeighborSet) error {
	for _, node := range nodeIDs.IDs() {
		for _, id := range g[node].IDs() {
			if !nodeIDs.Contains(id) {
				return violation(RuleUnknownNeighbor,
					fmt.Sprintf("node [%d] has [%d] as neighbor, which does not exist in the topology",
						node, id), node, id)
			}
			if !g[id].Contains(node) {
				return violation(RuleBidirectional,
					fmt.Sprintf("the topology is not bidirectional: node [%d] is reachable from [%d], but not vice versa",
						id, node), id, node)
			}
		}
	}
	return nil
}

// validateConnected requires the whole graph, all node kinds included,
// to be a single connected component. Breadth-first from an arbitrary
// declared node.
func validateConnected(g *graph, nodeIDs topology.NeighborSet, nNodes int) error {
	if nNodes == 0 {
		return nil
	}
	start, _ := nodeIDs.First()
	if g.reachable(start, nil) != nNodes {
		return violation(RuleConnectivity, "the network topology is not connected")
	}
	return nil
}

// validateDroneMesh requires every drone to be reachable from any drone
// over drone-to-drone edges alone. Standing on a drone, the traversal
// skips non-drone neighbors entirely rather than stopping after one
// hop, so two drone clusters joined only through a client or server
// are still rejected.
func validateDroneMesh(g *graph, droneIDs topology.NeighborSet, nDrones int) error {
	if nDrones == 0 {
		return nil
	}
	start, _ := droneIDs.First()
	if g.reachable(start, &droneIDs) != nDrones {
		return violation(RuleDroneMesh, "clients and servers are not all on the edge of the network")
	}
	return nil
}
