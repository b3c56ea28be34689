package validation

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/RustRoveri/network-initializer/pkg/config"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// triangleMesh is the reference topology used throughout: drones 4, 6,
// and 7 fully meshed, client 1 on drone 4, server 5 on drones 4 and 6.
func triangleMesh() *config.Config {
	return &config.Config{
		Drones: []config.Drone{
			{ID: 4, Connected: []topology.NodeID{6, 7, 1, 5}, PDR: 0.1},
			{ID: 6, Connected: []topology.NodeID{4, 7, 5}, PDR: 0.0},
			{ID: 7, Connected: []topology.NodeID{4, 6}, PDR: 1.0},
		},
		Clients: []config.Client{
			{ID: 1, Connected: []topology.NodeID{4}},
		},
		Servers: []config.Server{
			{ID: 5, Connected: []topology.NodeID{4, 6}},
		},
	}
}

// expectViolation asserts err is a rule violation with the given rule,
// message, and offending node IDs.
func expectViolation(t *testing.T, err error, rule Rule, msg string, nodes ...topology.NodeID) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %q violation, got nil", rule)
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if verr.Rule != rule {
		t.Errorf("rule = %q, want %q", verr.Rule, rule)
	}
	if verr.Message != msg {
		t.Errorf("message = %q, want %q", verr.Message, msg)
	}
	if len(verr.Nodes) != len(nodes) {
		t.Fatalf("nodes = %v, want %v", verr.Nodes, nodes)
	}
	for i := range nodes {
		if verr.Nodes[i] != nodes[i] {
			t.Fatalf("nodes = %v, want %v", verr.Nodes, nodes)
		}
	}
}

// TestValidTriangleMesh accepts the reference topology
func TestValidTriangleMesh(t *testing.T) {
	if err := Validate(triangleMesh()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

// TestEmptyConfig accepts a topology with no nodes
func TestEmptyConfig(t *testing.T) {
	if err := Validate(&config.Config{}); err != nil {
		t.Fatalf("Validate failed on empty config: %v", err)
	}
}

// TestLoneDrone accepts a single drone with no edges
func TestLoneDrone(t *testing.T) {
	cfg := &config.Config{
		Drones: []config.Drone{{ID: 9, PDR: 0.5}},
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate failed on lone drone: %v", err)
	}
}

// TestDuplicateIDAcrossKinds rejects an ID reused by another kind
func TestDuplicateIDAcrossKinds(t *testing.T) {
	cfg := triangleMesh()
	cfg.Clients[0].ID = 6 // collides with a drone

	err := Validate(cfg)
	expectViolation(t, err, RuleDuplicateID, "duplicate node ID found: [6]", 6)
}

// TestDuplicateIDSameKind rejects two drones sharing an ID
func TestDuplicateIDSameKind(t *testing.T) {
	cfg := triangleMesh()
	cfg.Drones[2].ID = 4
	cfg.Drones[2].Connected = []topology.NodeID{6}

	err := Validate(cfg)
	expectViolation(t, err, RuleDuplicateID, "duplicate node ID found: [4]", 4)
}

// TestPDROutOfRange rejects drop rates outside [0, 1]
func TestPDROutOfRange(t *testing.T) {
	cfg := triangleMesh()
	cfg.Drones[1].PDR = 1.5

	err := Validate(cfg)
	expectViolation(t, err, RulePDRRange, "invalid PDR for drone [6]: 1.5", 6)

	cfg.Drones[1].PDR = -0.2
	err = Validate(cfg)
	expectViolation(t, err, RulePDRRange, "invalid PDR for drone [6]: -0.2", 6)
}

// TestSelfLoop rejects a node listing itself as a neighbor
func TestSelfLoop(t *testing.T) {
	cfg := triangleMesh()
	cfg.Drones[2].Connected = []topology.NodeID{4, 7}

	err := Validate(cfg)
	expectViolation(t, err, RuleSelfLoop, "drone [7] is connected to itself", 7)
}

// TestClientSelfLoop names the kind in the message
func TestClientSelfLoop(t *testing.T) {
	cfg := triangleMesh()
	cfg.Clients[0].Connected = []topology.NodeID{1}

	err := Validate(cfg)
	expectViolation(t, err, RuleSelfLoop, "client [1] is connected to itself", 1)
}

// TestDuplicateNeighbor rejects a repeated neighbor entry
func TestDuplicateNeighbor(t *testing.T) {
	cfg := triangleMesh()
	cfg.Drones[0].Connected = []topology.NodeID{6, 7, 6, 1, 5}

	err := Validate(cfg)
	expectViolation(t, err, RuleDuplicateNeighbor, "drone [4] has duplicate neighbor [6]", 4, 6)
}

// TestClientDegreeBounds rejects clients with zero or three neighbors
func TestClientDegreeBounds(t *testing.T) {
	cfg := triangleMesh()
	cfg.Clients[0].Connected = nil
	err := Validate(cfg)
	expectViolation(t, err, RuleClientDegree, "client [1] is connected to 0 drones", 1)

	cfg = triangleMesh()
	cfg.Clients[0].Connected = []topology.NodeID{4, 6, 7}
	// keep bidirectionality intact for the extra edges
	cfg.Drones[1].Connected = append(cfg.Drones[1].Connected, 1)
	cfg.Drones[2].Connected = append(cfg.Drones[2].Connected, 1)
	err = Validate(cfg)
	expectViolation(t, err, RuleClientDegree, "client [1] has more than 2 neighbors", 1)
}

// TestServerDegreeBound rejects servers with fewer than two neighbors
func TestServerDegreeBound(t *testing.T) {
	cfg := triangleMesh()
	cfg.Servers[0].Connected = []topology.NodeID{4}
	cfg.Drones[1].Connected = []topology.NodeID{4, 7}

	err := Validate(cfg)
	expectViolation(t, err, RuleServerDegree, "server [5] has less than 2 neighbors", 5)
}

// TestEdgeNodeLinkedToEdgeNode rejects client and server neighbors
// that are not drones
func TestEdgeNodeLinkedToEdgeNode(t *testing.T) {
	cfg := triangleMesh()
	cfg.Clients[0].Connected = []topology.NodeID{5}

	err := Validate(cfg)
	expectViolation(t, err, RuleNeighborKind,
		"client [1] is connected to [5], which is not a drone", 1, 5)

	cfg = triangleMesh()
	cfg.Servers[0].Connected = []topology.NodeID{4, 1}
	err = Validate(cfg)
	expectViolation(t, err, RuleNeighborKind,
		"server [5] is connected to [1], which is not a drone", 5, 1)
}

// TestUnknownNeighbor rejects edges pointing at undeclared IDs
func TestUnknownNeighbor(t *testing.T) {
	cfg := triangleMesh()
	cfg.Drones[0].Connected = append(cfg.Drones[0].Connected, 200)

	err := Validate(cfg)
	expectViolation(t, err, RuleUnknownNeighbor,
		"node [4] has [200] as neighbor, which does not exist in the topology", 4, 200)
}

// TestMissingReverseEdge rejects the reference topology once one
// direction of the 4-7 edge is removed
func TestMissingReverseEdge(t *testing.T) {
	cfg := triangleMesh()
	cfg.Drones[2].Connected = []topology.NodeID{6} // drone 7 no longer lists 4

	err := Validate(cfg)
	expectViolation(t, err, RuleBidirectional,
		"the topology is not bidirectional: node [7] is reachable from [4], but not vice versa", 7, 4)
}

// TestDisconnectedGraph rejects a topology split in two components
func TestDisconnectedGraph(t *testing.T) {
	cfg := &config.Config{
		Drones: []config.Drone{
			{ID: 4, Connected: []topology.NodeID{6}},
			{ID: 6, Connected: []topology.NodeID{4}},
			{ID: 10, Connected: []topology.NodeID{11}},
			{ID: 11, Connected: []topology.NodeID{10}},
		},
	}

	err := Validate(cfg)
	expectViolation(t, err, RuleConnectivity, "the network topology is not connected")
}

// TestClientBridgingDroneMesh rejects two drone clusters joined only
// through a client: the whole graph is connected, but the drone-only
// subgraph is not
func TestClientBridgingDroneMesh(t *testing.T) {
	cfg := &config.Config{
		Drones: []config.Drone{
			{ID: 4, Connected: []topology.NodeID{6, 1}},
			{ID: 6, Connected: []topology.NodeID{4}},
			{ID: 10, Connected: []topology.NodeID{11, 1}},
			{ID: 11, Connected: []topology.NodeID{10}},
		},
		Clients: []config.Client{
			{ID: 1, Connected: []topology.NodeID{4, 10}},
		},
	}

	err := Validate(cfg)
	expectViolation(t, err, RuleDroneMesh, "clients and servers are not all on the edge of the network")
}

// TestFailFastOrder verifies a config with several defects reports the
// per-node defect of the earliest declared node first
func TestFailFastOrder(t *testing.T) {
	cfg := triangleMesh()
	cfg.Drones[0].PDR = 2.0                               // declared first
	cfg.Drones[2].Connected = []topology.NodeID{7, 4, 6}  // self-loop, declared later
	cfg.Clients[0].Connected = nil                        // degree violation, checked later

	err := Validate(cfg)
	expectViolation(t, err, RulePDRRange, "invalid PDR for drone [4]: 2", 4)
}

// TestValidateFile runs the load-then-validate entry point
func TestValidateFile(t *testing.T) {
	if _, err := ValidateFile("no/such/file.yaml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

// TestValidateDoesNotMutate verifies Validate leaves the config intact
func TestValidateDoesNotMutate(t *testing.T) {
	cfg := triangleMesh()
	want := triangleMesh()

	_ = Validate(cfg)

	if len(cfg.Drones) != len(want.Drones) {
		t.Fatal("Validate changed the drone list")
	}
	for i := range want.Drones {
		if cfg.Drones[i].ID != want.Drones[i].ID ||
			cfg.Drones[i].PDR != want.Drones[i].PDR ||
			len(cfg.Drones[i].Connected) != len(want.Drones[i].Connected) {
			t.Fatalf("Validate changed drone %d: %+v", i, cfg.Drones[i])
		}
	}
}

// TestValidationProperties checks invariants of the validator itself
// over randomly generated ring topologies
func TestValidationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// A drone ring of any size is a valid topology.
	properties.Property("drone rings validate", prop.ForAll(
		func(n int) bool {
			return Validate(droneRing(n)) == nil
		},
		gen.IntRange(1, 50),
	))

	// Validation is deterministic: two runs agree.
	properties.Property("validation is deterministic", prop.ForAll(
		func(n int, breakAt int) bool {
			cfg := droneRing(n)
			if n > 2 {
				// drop one reverse edge to make roughly half the
				// inputs invalid
				i := breakAt % n
				cfg.Drones[i].Connected = cfg.Drones[i].Connected[:1]
			}
			first := Validate(cfg)
			second := Validate(cfg)
			if (first == nil) != (second == nil) {
				return false
			}
			return first == nil || first.Error() == second.Error()
		},
		gen.IntRange(1, 50),
		gen.IntRange(0, 1<<20),
	))

	properties.TestingRun(t)
}

// droneRing builds n drones in a cycle (or a lone drone, or a pair).
func droneRing(n int) *config.Config {
	cfg := &config.Config{}
	for i := 0; i < n; i++ {
		id := topology.NodeID(i)
		var connected []topology.NodeID
		switch {
		case n == 1:
		case n == 2:
			connected = []topology.NodeID{topology.NodeID(1 - i)}
		default:
			prev := topology.NodeID((i + n - 1) % n)
			next := topology.NodeID((i + 1) % n)
			connected = []topology.NodeID{prev, next}
		}
		cfg.Drones = append(cfg.Drones, config.Drone{ID: id, Connected: connected})
	}
	return cfg
}
