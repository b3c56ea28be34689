// Package initializer turns a validated configuration into a running
// mesh: it allocates every node's channels, spawns one goroutine per
// node, wires neighbors by command message, and assembles the result
// object consumed by the controller and the UI.
//
// The bootstrap has a strict phase order. Channel allocation and
// spawning are interleaved per node, but wiring starts only after every
// node is spawned, so no AddSender command can ever reference a packet
// send end that does not exist yet. No barrier exists in the other
// direction: a node may start running, and even try to forward, before
// its neighbor table is complete; actors tolerate that by contract.
package initializer

import (
	"fmt"

	"github.com/RustRoveri/network-initializer/pkg/config"
	"github.com/RustRoveri/network-initializer/pkg/logging"
	"github.com/RustRoveri/network-initializer/pkg/node"
	"github.com/RustRoveri/network-initializer/pkg/protocol"
	"github.com/RustRoveri/network-initializer/pkg/topology"
	"github.com/RustRoveri/network-initializer/pkg/validation"
)

// Init bootstraps the network described by cfg and returns the
// assembled Network. The caller is expected to have validated cfg; Init
// trusts node IDs to be unique and edges to be well-formed. On error no
// goroutines are left running with dangling channel ends: construction
// failures abort before the first spawn of the failing kind completes.
func Init(cfg *config.Config, opts ...Option) (*Network, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	log := o.logger

	net := &Network{Topology: topology.New()}

	droneEvents := make(chan protocol.DroneEvent, o.eventBuffer)
	clientEvents := make(chan protocol.ClientEvent, o.eventBuffer)
	serverEvents := make(chan protocol.ServerEvent, o.eventBuffer)
	net.DroneEvents = EventChannels[protocol.DroneEvent]{Recv: droneEvents, Send: droneEvents}
	net.ClientEvents = EventChannels[protocol.ClientEvent]{Recv: clientEvents, Send: clientEvents}
	net.ServerEvents = EventChannels[protocol.ServerEvent]{Recv: serverEvents, Send: serverEvents}
	net.UIChannels = make([]ClientUI, 0, len(cfg.Clients))

	// Phase 1+2, interleaved per node: allocate channels, record the
	// send ends, assign the variant, record the topology slot, spawn.
	for i, dr := range cfg.Drones {
		cmdCh := make(chan protocol.DroneCommand, o.commandBuffer)
		pktCh := make(chan *protocol.Packet, o.packetBuffer)
		net.commands[dr.ID] = CommandHandle{Kind: topology.KindDrone, Drone: cmdCh}
		net.packetSends[dr.ID] = pktCh

		impl := node.AssignDroneImpl(i)
		net.Distributions.CountDrone(impl)
		net.Topology.SetKind(dr.ID, topology.DroneKind(dr.PDR, impl))

		runner, err := node.ForgeDrone(impl, node.DroneParams{
			ID:       dr.ID,
			PDR:      dr.PDR,
			Packets:  pktCh,
			Commands: cmdCh,
			Events:   droneEvents,
			Logger:   log,
			Metrics:  o.metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("spawning drone [%d]: %w", dr.ID, err)
		}
		if o.metrics != nil {
			o.metrics.RecordSpawn(topology.KindDrone.String(), impl.String())
		}
		go runner.Run()
	}

	for i, cl := range cfg.Clients {
		cmdCh := make(chan protocol.ClientCommand, o.commandBuffer)
		pktCh := make(chan *protocol.Packet, o.packetBuffer)
		toClient := make(chan protocol.UIToClient, o.uiBuffer)
		toUI := make(chan protocol.ClientToUI, o.uiBuffer)
		net.commands[cl.ID] = CommandHandle{Kind: topology.KindClient, Client: cmdCh}
		net.packetSends[cl.ID] = pktCh

		ct := node.AssignClientType(i)
		net.Distributions.CountClient(ct)
		net.Topology.SetKind(cl.ID, topology.ClientKind(ct))
		net.UIChannels = append(net.UIChannels, ClientUI{
			ID:         cl.ID,
			Type:       ct,
			ToClient:   toClient,
			FromClient: toUI,
		})

		runner := node.NewClient(ct, node.ClientParams{
			ID:       cl.ID,
			Packets:  pktCh,
			Commands: cmdCh,
			Events:   clientEvents,
			FromUI:   toClient,
			ToUI:     toUI,
			Logger:   log,
		})
		if o.metrics != nil {
			o.metrics.RecordSpawn(topology.KindClient.String(), ct.String())
		}
		go runner.Run()
	}

	for i, sv := range cfg.Servers {
		cmdCh := make(chan protocol.ServerCommand, o.commandBuffer)
		pktCh := make(chan *protocol.Packet, o.packetBuffer)
		net.commands[sv.ID] = CommandHandle{Kind: topology.KindServer, Server: cmdCh}
		net.packetSends[sv.ID] = pktCh

		st := node.AssignServerType(i)
		net.Distributions.CountServer(st)
		net.Topology.SetKind(sv.ID, topology.ServerKind(st))

		runner := node.NewServer(st, node.ServerParams{
			ID:       sv.ID,
			Packets:  pktCh,
			Commands: cmdCh,
			Events:   serverEvents,
			Logger:   log,
		})
		if o.metrics != nil {
			o.metrics.RecordSpawn(topology.KindServer.String(), st.String())
		}
		go runner.Run()
	}

	// Phase 3: every packet send end now exists, so wire neighbors.
	for _, dr := range cfg.Drones {
		for _, neighbor := range dr.Connected {
			net.wireDrone(dr.ID, neighbor, &o)
		}
	}
	for _, cl := range cfg.Clients {
		for _, neighbor := range cl.Connected {
			net.wireClient(cl.ID, neighbor, &o)
		}
	}
	for _, sv := range cfg.Servers {
		for _, neighbor := range sv.Connected {
			net.wireServer(sv.ID, neighbor, &o)
		}
	}

	log.Info("network initialized",
		logging.F("nodes", net.Topology.Len()),
		logging.F("drones", net.Distributions.TotalDrones()),
		logging.F("clients", net.Distributions.TotalClients()),
		logging.F("servers", net.Distributions.TotalServers()),
	)
	return net, nil
}

// InitFile validates the configuration at path and, when valid,
// initializes the network it describes. This is the top-level
// validate-then-initialize entry point: the caller receives either a
// fully wired Network or a single explanatory error.
func InitFile(path string, opts ...Option) (*Network, error) {
	cfg, err := validation.ValidateFile(path)
	if err != nil {
		return nil, err
	}
	return Init(cfg, opts...)
}

// wireDrone sends AddSender(neighbor) to drone a and records the edge
// in the topology snapshot. Wiring is fire-and-forget: with default
// buffers the send cannot block, and with shrunken buffers a full
// channel means the command is silently lost, mirroring the reference
// behavior of swallowing wiring send failures.
func (n *Network) wireDrone(a, neighbor topology.NodeID, o *options) {
	n.Topology.AddNeighbor(a, neighbor)
	h := n.commands[a]
	if h.Drone == nil {
		return
	}
	cmd := protocol.DroneCommand{
		Kind:     protocol.DroneAddSender,
		Neighbor: neighbor,
		Sender:   n.packetSends[neighbor],
	}
	select {
	case h.Drone <- cmd:
		if o.metrics != nil {
			o.metrics.RecordWiring(topology.KindDrone.String())
		}
	default:
		o.logger.Warn("wiring command lost", logging.Node(a), logging.F("neighbor", uint8(neighbor)))
	}
}

func (n *Network) wireClient(a, neighbor topology.NodeID, o *options) {
	n.Topology.AddNeighbor(a, neighbor)
	h := n.commands[a]
	if h.Client == nil {
		return
	}
	cmd := protocol.ClientCommand{
		Kind:     protocol.EdgeAddSender,
		Neighbor: neighbor,
		Sender:   n.packetSends[neighbor],
	}
	select {
	case h.Client <- cmd:
		if o.metrics != nil {
			o.metrics.RecordWiring(topology.KindClient.String())
		}
	default:
		o.logger.Warn("wiring command lost", logging.Node(a), logging.F("neighbor", uint8(neighbor)))
	}
}

func (n *Network) wireServer(a, neighbor topology.NodeID, o *options) {
	n.Topology.AddNeighbor(a, neighbor)
	h := n.commands[a]
	if h.Server == nil {
		return
	}
	cmd := protocol.ServerCommand{
		Kind:     protocol.EdgeAddSender,
		Neighbor: neighbor,
		Sender:   n.packetSends[neighbor],
	}
	select {
	case h.Server <- cmd:
		if o.metrics != nil {
			o.metrics.RecordWiring(topology.KindServer.String())
		}
	default:
		o.logger.Warn("wiring command lost", logging.Node(a), logging.F("neighbor", uint8(neighbor)))
	}
}
