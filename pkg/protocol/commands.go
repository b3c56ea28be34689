package protocol

import "github.com/RustRoveri/network-initializer/pkg/topology"

// DroneCommandKind discriminates the commands a drone accepts from the
// initializer and the controller.
type DroneCommandKind uint8

const (
	// DroneAddSender hands the drone the send end of a neighbor's
	// packet channel. Sent once per declared edge during wiring; the
	// controller may send more over the node's lifetime.
	DroneAddSender DroneCommandKind = iota
	// DroneRemoveSender removes a neighbor's send end.
	DroneRemoveSender
	// DroneSetPacketDropRate replaces the drone's PDR.
	DroneSetPacketDropRate
	// DroneCrash makes the drone exit its run loop.
	DroneCrash
)

// DroneCommand is one control message for a drone.
type DroneCommand struct {
	Kind     DroneCommandKind
	Neighbor topology.NodeID
	Sender   chan<- *Packet // AddSender only
	PDR      float64        // SetPacketDropRate only
}

// EdgeCommandKind discriminates the commands clients and servers
// accept. Edge nodes share one command shape since neither relays.
type EdgeCommandKind uint8

const (
	// EdgeAddSender hands the node the send end of a neighbor drone's
	// packet channel.
	EdgeAddSender EdgeCommandKind = iota
	// EdgeRemoveSender removes a neighbor's send end.
	EdgeRemoveSender
	// EdgeShutdown makes the node exit its run loop.
	EdgeShutdown
)

// ClientCommand is one control message for a client.
type ClientCommand struct {
	Kind     EdgeCommandKind
	Neighbor topology.NodeID
	Sender   chan<- *Packet
}

// ServerCommand is one control message for a server.
type ServerCommand struct {
	Kind     EdgeCommandKind
	Neighbor topology.NodeID
	Sender   chan<- *Packet
}
