package node

import (
	"github.com/RustRoveri/network-initializer/pkg/logging"
	"github.com/RustRoveri/network-initializer/pkg/protocol"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// ClientParams carries the spawn-time contract for a client, including
// its UI channel pair.
type ClientParams struct {
	ID       topology.NodeID
	Packets  <-chan *protocol.Packet
	Commands <-chan protocol.ClientCommand
	Events   chan<- protocol.ClientEvent
	FromUI   <-chan protocol.UIToClient
	ToUI     chan<- protocol.ClientToUI
	Logger   logging.Logger
}

// NewClient constructs a client of the given type. The type decides
// which UI is attached to the channel pair; the network-facing behavior
// is shared.
func NewClient(ct topology.ClientType, p ClientParams) Runner {
	if p.Logger == nil {
		p.Logger = logging.NewNopLogger()
	}
	return &client{
		id:        p.ID,
		kind:      ct,
		packets:   p.Packets,
		commands:  p.Commands,
		events:    p.Events,
		fromUI:    p.FromUI,
		toUI:      p.ToUI,
		neighbors: make(map[topology.NodeID]chan<- *protocol.Packet),
		log:       p.Logger.With(logging.Node(p.ID), logging.F("type", ct.String())),
	}
}

type client struct {
	id        topology.NodeID
	kind      topology.ClientType
	packets   <-chan *protocol.Packet
	commands  <-chan protocol.ClientCommand
	events    chan<- protocol.ClientEvent
	fromUI    <-chan protocol.UIToClient
	toUI      chan<- protocol.ClientToUI
	neighbors map[topology.NodeID]chan<- *protocol.Packet
	log       logging.Logger
}

// Run consumes commands, packets, and UI requests until shutdown.
func (c *client) Run() {
	for {
		select {
		case cmd, ok := <-c.commands:
			if !ok {
				return
			}
			switch cmd.Kind {
			case protocol.EdgeAddSender:
				c.neighbors[cmd.Neighbor] = cmd.Sender
			case protocol.EdgeRemoveSender:
				delete(c.neighbors, cmd.Neighbor)
			case protocol.EdgeShutdown:
				c.emit(protocol.ClientEvent{Kind: protocol.EdgeStopped, Node: c.id})
				return
			}
		case pkt := <-c.packets:
			c.handlePacket(pkt)
		case req := <-c.fromUI:
			c.send(req)
		}
	}
}

func (c *client) handlePacket(pkt *protocol.Packet) {
	c.emit(protocol.ClientEvent{Kind: protocol.EdgePacketReceived, Node: c.id, Packet: pkt})
	if pkt.Kind != protocol.PacketMessage || len(pkt.Routing.Hops) == 0 {
		return
	}
	c.notifyUI(protocol.ClientToUI{
		Source:  pkt.Routing.Hops[0],
		Payload: pkt.Payload,
	})
}

// send injects a UI request into the mesh. The first hop after the
// client itself must already be wired; before wiring completes the
// request is dropped and reported back to the UI.
func (c *client) send(req protocol.UIToClient) {
	pkt := protocol.NewPacket(req.Hops, req.Payload)
	next, ok := pkt.Routing.NextHop()
	if !ok {
		c.notifyUI(protocol.ClientToUI{Status: "invalid route"})
		return
	}
	sender, ok := c.neighbors[next]
	if !ok {
		c.notifyUI(protocol.ClientToUI{Status: "neighbor not yet known, message dropped"})
		return
	}
	pkt.Routing = pkt.Routing.Advance()
	select {
	case sender <- pkt:
		c.emit(protocol.ClientEvent{Kind: protocol.EdgePacketSent, Node: c.id, Packet: pkt})
	default:
		c.notifyUI(protocol.ClientToUI{Status: "network congested, message dropped"})
	}
}

func (c *client) notifyUI(msg protocol.ClientToUI) {
	select {
	case c.toUI <- msg:
	default:
	}
}

func (c *client) emit(ev protocol.ClientEvent) {
	select {
	case c.events <- ev:
	default:
	}
}
