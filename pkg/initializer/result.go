package initializer

import (
	"github.com/RustRoveri/network-initializer/pkg/protocol"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// CommandHandle is the kind-tagged send end of one node's command
// channel. Exactly one of the three channel fields is non-nil,
// matching Kind.
type CommandHandle struct {
	Kind   topology.Kind
	Drone  chan<- protocol.DroneCommand
	Client chan<- protocol.ClientCommand
	Server chan<- protocol.ServerCommand
}

// EventChannels bundles one per-kind event channel: the receive end the
// controller drains and the retained send end it may clone into nodes
// it spawns later.
type EventChannels[T any] struct {
	Recv <-chan T
	Send chan<- T
}

// ClientUI is the UI channel pair of one client node, handed to the
// GUI layer at assembly time.
type ClientUI struct {
	ID         topology.NodeID
	Type       topology.ClientType
	ToClient   chan<- protocol.UIToClient
	FromClient <-chan protocol.ClientToUI
}

// Network is the immutable result of a successful initialization: the
// finished topology snapshot, the per-node command handles, the
// per-kind event channels, the client UI pairs, and the variant
// distribution counters. Ownership of every channel end transfers to
// the caller; the initializer performs no further mutation.
type Network struct {
	Topology      *topology.Topology
	Distributions topology.Distributions

	DroneEvents  EventChannels[protocol.DroneEvent]
	ClientEvents EventChannels[protocol.ClientEvent]
	ServerEvents EventChannels[protocol.ServerEvent]

	UIChannels []ClientUI

	commands    [topology.MaxNodes]CommandHandle
	packetSends [topology.MaxNodes]chan<- *protocol.Packet
}

// Command returns the command handle for id. The second return is
// false when id is not a declared node.
func (n *Network) Command(id topology.NodeID) (CommandHandle, bool) {
	h := n.commands[id]
	return h, h.Kind != topology.KindNone
}

// PacketSender returns the send end of id's packet channel, letting the
// controller shortcut a packet directly to a node. The second return is
// false when id is not a declared node.
func (n *Network) PacketSender(id topology.NodeID) (chan<- *protocol.Packet, bool) {
	s := n.packetSends[id]
	return s, s != nil
}
