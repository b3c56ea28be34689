// Package protocol defines the wire types exchanged by nodes, the
// controller, and the UI: packets with their source-routing header, the
// per-kind command and event variants, and the client/UI message pair.
//
// These types cross channel boundaries only; nothing here performs I/O.
package protocol

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// PacketKind discriminates the packet payload.
type PacketKind uint8

const (
	// PacketMessage carries an application payload fragment.
	PacketMessage PacketKind = iota
	// PacketAck confirms delivery of a message packet.
	PacketAck
	// PacketNack reports a dropped or unroutable message packet.
	PacketNack
)

// String returns the packet kind name.
func (k PacketKind) String() string {
	switch k {
	case PacketMessage:
		return "message"
	case PacketAck:
		return "ack"
	case PacketNack:
		return "nack"
	default:
		return fmt.Sprintf("packet(%d)", uint8(k))
	}
}

// SourceRoutingHeader carries the full path a packet must follow and
// the index of the hop currently holding it.
type SourceRoutingHeader struct {
	HopIndex int
	Hops     []topology.NodeID
}

// CurrentHop returns the node expected to be holding the packet. The
// second return is false when the hop index is out of range.
func (h SourceRoutingHeader) CurrentHop() (topology.NodeID, bool) {
	if h.HopIndex < 0 || h.HopIndex >= len(h.Hops) {
		return 0, false
	}
	return h.Hops[h.HopIndex], true
}

// NextHop returns the node the packet must be forwarded to. The second
// return is false when the packet is at its destination.
func (h SourceRoutingHeader) NextHop() (topology.NodeID, bool) {
	next := h.HopIndex + 1
	if next <= 0 || next >= len(h.Hops) {
		return 0, false
	}
	return h.Hops[next], true
}

// Advance returns a copy of the header with the hop index moved one
// step toward the destination.
func (h SourceRoutingHeader) Advance() SourceRoutingHeader {
	return SourceRoutingHeader{HopIndex: h.HopIndex + 1, Hops: h.Hops}
}

// Reversed returns the header of the return path: hops reversed, index
// reset to the start.
func (h SourceRoutingHeader) Reversed() SourceRoutingHeader {
	hops := make([]topology.NodeID, len(h.Hops))
	for i, id := range h.Hops {
		hops[len(h.Hops)-1-i] = id
	}
	return SourceRoutingHeader{HopIndex: 0, Hops: hops}
}

// Packet is the unit of traffic relayed by drones. The session ID ties
// fragments, acks, and nacks of one exchange together.
type Packet struct {
	Session uuid.UUID
	Kind    PacketKind
	Routing SourceRoutingHeader
	Payload []byte
}

// NewPacket builds a message packet with a fresh session ID.
func NewPacket(hops []topology.NodeID, payload []byte) *Packet {
	return &Packet{
		Session: uuid.New(),
		Kind:    PacketMessage,
		Routing: SourceRoutingHeader{HopIndex: 0, Hops: hops},
		Payload: payload,
	}
}

// String renders a compact description for logs.
func (p *Packet) String() string {
	return fmt.Sprintf("%s %s hop=%d/%d", p.Kind, p.Session, p.Routing.HopIndex, len(p.Routing.Hops))
}
