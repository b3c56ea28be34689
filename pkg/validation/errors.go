package validation

import "github.com/RustRoveri/network-initializer/pkg/topology"

// Rule names one of the graph invariants checked by Validate. The
// values are stable strings usable as metrics labels.
type Rule string

const (
	// RuleDuplicateID: node IDs must be unique across all kinds.
	RuleDuplicateID Rule = "duplicate-id"
	// RulePDRRange: drone packet drop rates must be in [0, 1].
	RulePDRRange Rule = "pdr-range"
	// RuleSelfLoop: no node may list itself as a neighbor.
	RuleSelfLoop Rule = "self-loop"
	// RuleDuplicateNeighbor: neighbor lists must not repeat an ID.
	RuleDuplicateNeighbor Rule = "duplicate-neighbor"
	// RuleClientDegree: clients must have one or two neighbors.
	RuleClientDegree Rule = "client-degree"
	// RuleServerDegree: servers must have at least two neighbors.
	RuleServerDegree Rule = "server-degree"
	// RuleNeighborKind: client and server neighbors must be drones.
	RuleNeighborKind Rule = "neighbor-kind"
	// RuleUnknownNeighbor: every neighbor must be a declared node.
	RuleUnknownNeighbor Rule = "unknown-neighbor"
	// RuleBidirectional: edge (a, b) requires edge (b, a).
	RuleBidirectional Rule = "bidirectional"
	// RuleConnectivity: the whole graph must be one component.
	RuleConnectivity Rule = "connectivity"
	// RuleDroneMesh: the drone-to-drone subgraph must be connected.
	RuleDroneMesh Rule = "drone-mesh"
)

// Error reports the first violated invariant, naming the rule and the
// offending node IDs. Validation stops at the first violation; errors
// are never accumulated.
type Error struct {
	Rule    Rule
	Nodes   []topology.NodeID
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

func violation(rule Rule, msg string, nodes ...topology.NodeID) *Error {
	return &Error{Rule: rule, Nodes: nodes, Message: msg}
}
