package protocol

import "github.com/RustRoveri/network-initializer/pkg/topology"

// DroneEventKind discriminates the events a drone reports to the
// controller.
type DroneEventKind uint8

const (
	// DronePacketSent: the packet was forwarded to the next hop.
	DronePacketSent DroneEventKind = iota
	// DronePacketDropped: the packet was discarded, either by the
	// configured drop rate or because the next hop is unknown.
	DronePacketDropped
	// DroneCrashed: the drone left its run loop after a crash command.
	DroneCrashed
)

// DroneEvent is one event reported on the shared drone event channel.
type DroneEvent struct {
	Kind   DroneEventKind
	Node   topology.NodeID
	Packet *Packet
}

// EdgeEventKind discriminates the events clients and servers report.
type EdgeEventKind uint8

const (
	// EdgePacketSent: the node injected a packet into the mesh.
	EdgePacketSent EdgeEventKind = iota
	// EdgePacketReceived: a packet addressed to the node arrived.
	EdgePacketReceived
	// EdgeStopped: the node left its run loop after a shutdown command.
	EdgeStopped
)

// ClientEvent is one event reported on the shared client event channel.
type ClientEvent struct {
	Kind   EdgeEventKind
	Node   topology.NodeID
	Packet *Packet
}

// ServerEvent is one event reported on the shared server event channel.
type ServerEvent struct {
	Kind   EdgeEventKind
	Node   topology.NodeID
	Packet *Packet
}
