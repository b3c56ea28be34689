package protocol

import (
	"testing"

	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// TestRoutingHops walks a header along its route
func TestRoutingHops(t *testing.T) {
	h := SourceRoutingHeader{Hops: []topology.NodeID{1, 4, 5}}

	cur, ok := h.CurrentHop()
	if !ok || cur != 1 {
		t.Errorf("CurrentHop() = %d, %v, want 1, true", cur, ok)
	}
	next, ok := h.NextHop()
	if !ok || next != 4 {
		t.Errorf("NextHop() = %d, %v, want 4, true", next, ok)
	}

	h = h.Advance()
	cur, _ = h.CurrentHop()
	next, _ = h.NextHop()
	if cur != 4 || next != 5 {
		t.Errorf("after Advance: current %d next %d, want 4 and 5", cur, next)
	}

	h = h.Advance()
	if _, ok := h.NextHop(); ok {
		t.Error("NextHop() at the destination should report false")
	}
	cur, ok = h.CurrentHop()
	if !ok || cur != 5 {
		t.Errorf("CurrentHop() at the destination = %d, %v, want 5, true", cur, ok)
	}

	h = h.Advance()
	if _, ok := h.CurrentHop(); ok {
		t.Error("CurrentHop() past the route should report false")
	}
}

// TestRoutingEmpty handles a header with no hops
func TestRoutingEmpty(t *testing.T) {
	var h SourceRoutingHeader
	if _, ok := h.CurrentHop(); ok {
		t.Error("CurrentHop() on an empty route should report false")
	}
	if _, ok := h.NextHop(); ok {
		t.Error("NextHop() on an empty route should report false")
	}
}

// TestReversed builds the return path
func TestReversed(t *testing.T) {
	h := SourceRoutingHeader{HopIndex: 2, Hops: []topology.NodeID{1, 4, 5}}
	r := h.Reversed()

	if r.HopIndex != 0 {
		t.Errorf("Reversed HopIndex = %d, want 0", r.HopIndex)
	}
	want := []topology.NodeID{5, 4, 1}
	for i := range want {
		if r.Hops[i] != want[i] {
			t.Fatalf("Reversed Hops = %v, want %v", r.Hops, want)
		}
	}

	// The original header's hop slice must not be shared.
	r.Hops[0] = 99
	if h.Hops[2] != 5 {
		t.Error("Reversed aliased the original hop slice")
	}
}

// TestNewPacket assigns fresh sessions
func TestNewPacket(t *testing.T) {
	hops := []topology.NodeID{1, 4, 5}
	a := NewPacket(hops, []byte("hello"))
	b := NewPacket(hops, []byte("hello"))

	if a.Kind != PacketMessage {
		t.Errorf("Kind = %v, want message", a.Kind)
	}
	if a.Routing.HopIndex != 0 {
		t.Errorf("HopIndex = %d, want 0", a.Routing.HopIndex)
	}
	if a.Session == b.Session {
		t.Error("two packets shared a session ID")
	}
	if string(a.Payload) != "hello" {
		t.Errorf("Payload = %q, want %q", a.Payload, "hello")
	}
}
