package topology

import "testing"

// TestNeighborSetAddContains tests basic set membership
func TestNeighborSetAddContains(t *testing.T) {
	ns := NewNeighborSet()

	if ns.Contains(7) {
		t.Error("empty set should not contain 7")
	}
	if !ns.Add(7) {
		t.Error("first Add(7) should report a new member")
	}
	if ns.Add(7) {
		t.Error("second Add(7) should report an existing member")
	}
	if !ns.Contains(7) {
		t.Error("set should contain 7 after Add")
	}
	if ns.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ns.Len())
	}
}

// TestNeighborSetBounds exercises the extreme node IDs
func TestNeighborSetBounds(t *testing.T) {
	ns := NewNeighborSet()
	ns.Add(0)
	ns.Add(MaxNodes - 1)

	if !ns.Contains(0) || !ns.Contains(MaxNodes-1) {
		t.Error("set should contain both 0 and 255")
	}
	ids := ns.IDs()
	if len(ids) != 2 || ids[0] != 0 || ids[1] != MaxNodes-1 {
		t.Errorf("IDs() = %v, want [0 255]", ids)
	}
}

// TestNeighborSetIDsAscending verifies iteration order
func TestNeighborSetIDsAscending(t *testing.T) {
	ns := NewNeighborSet()
	for _, id := range []NodeID{42, 3, 200, 17} {
		ns.Add(id)
	}

	ids := ns.IDs()
	want := []NodeID{3, 17, 42, 200}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}
}

// TestNeighborSetFirst tests the smallest-member accessor
func TestNeighborSetFirst(t *testing.T) {
	ns := NewNeighborSet()
	if _, ok := ns.First(); ok {
		t.Error("First() on an empty set should report false")
	}

	ns.Add(99)
	ns.Add(12)
	first, ok := ns.First()
	if !ok || first != 12 {
		t.Errorf("First() = %d, %v, want 12, true", first, ok)
	}
}

// TestNeighborSetCloneIndependence verifies clones do not share storage
func TestNeighborSetCloneIndependence(t *testing.T) {
	ns := NewNeighborSet()
	ns.Add(5)

	clone := ns.Clone()
	clone.Add(6)

	if ns.Contains(6) {
		t.Error("adding to the clone mutated the original")
	}
	if !clone.Contains(5) {
		t.Error("clone lost a member of the original")
	}
}

// TestTopologySlots tests kind bookkeeping and node enumeration
func TestTopologySlots(t *testing.T) {
	topo := New()

	if topo.Len() != 0 {
		t.Errorf("empty topology Len() = %d, want 0", topo.Len())
	}
	if topo.Kind(9).Kind != KindNone {
		t.Error("undeclared slot should be KindNone")
	}

	topo.SetKind(4, DroneKind(0.25, DroneImplTracing))
	topo.SetKind(1, ClientKind(ClientTypeBrowser))
	topo.SetKind(5, ServerKind(ServerTypeMedia))

	if topo.Len() != 3 {
		t.Errorf("Len() = %d, want 3", topo.Len())
	}

	nk := topo.Kind(4)
	if nk.Kind != KindDrone || nk.PDR != 0.25 || nk.Impl != DroneImplTracing {
		t.Errorf("unexpected drone slot: %+v", nk)
	}
	if topo.Kind(1).Client != ClientTypeBrowser {
		t.Error("client slot lost its type")
	}
	if topo.Kind(5).Server != ServerTypeMedia {
		t.Error("server slot lost its type")
	}

	nodes := topo.Nodes()
	want := []NodeID{1, 4, 5}
	if len(nodes) != len(want) {
		t.Fatalf("Nodes() = %v, want %v", nodes, want)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Fatalf("Nodes() = %v, want %v", nodes, want)
		}
	}
}

// TestTopologyNeighbors tests edge bookkeeping
func TestTopologyNeighbors(t *testing.T) {
	topo := New()
	topo.AddNeighbor(4, 6)
	topo.AddNeighbor(4, 7)

	ns := topo.Neighbors(4)
	if ns.Len() != 2 || !ns.Contains(6) || !ns.Contains(7) {
		t.Errorf("Neighbors(4) = %v, want {6, 7}", ns.IDs())
	}
	// Edges are directed at this layer; the reverse edge is separate.
	if topo.Neighbors(6).Contains(4) {
		t.Error("AddNeighbor(4, 6) should not create the reverse edge")
	}
}

// TestVariantNames checks the names used as metrics labels
func TestVariantNames(t *testing.T) {
	cases := []struct {
		nk   NodeKind
		want string
	}{
		{DroneKind(0, DroneImplRelay), "relay"},
		{DroneKind(0, DroneImplTracing), "tracing"},
		{DroneKind(0, DroneImplStrict), "strict"},
		{ClientKind(ClientTypeChat), "chat"},
		{ClientKind(ClientTypeBrowser), "browser"},
		{ServerKind(ServerTypeText), "text"},
		{ServerKind(ServerTypeMedia), "media"},
		{NodeKind{}, "none"},
	}
	for _, tc := range cases {
		if got := tc.nk.Variant(); got != tc.want {
			t.Errorf("Variant() = %q, want %q", got, tc.want)
		}
	}
}

// TestDistributions tests the per-variant counters
func TestDistributions(t *testing.T) {
	var d Distributions
	d.CountDrone(DroneImplRelay)
	d.CountDrone(DroneImplRelay)
	d.CountDrone(DroneImplStrict)
	d.CountClient(ClientTypeChat)
	d.CountServer(ServerTypeText)
	d.CountServer(ServerTypeMedia)

	if d.TotalDrones() != 3 {
		t.Errorf("TotalDrones() = %d, want 3", d.TotalDrones())
	}
	if d.TotalClients() != 1 {
		t.Errorf("TotalClients() = %d, want 1", d.TotalClients())
	}
	if d.TotalServers() != 2 {
		t.Errorf("TotalServers() = %d, want 2", d.TotalServers())
	}
	if d.Drones[DroneImplRelay] != 2 {
		t.Errorf("Drones[relay] = %d, want 2", d.Drones[DroneImplRelay])
	}
}
