package node

import (
	"fmt"

	"github.com/RustRoveri/network-initializer/pkg/logging"
	"github.com/RustRoveri/network-initializer/pkg/protocol"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// ServerParams carries the spawn-time contract for a server.
type ServerParams struct {
	ID       topology.NodeID
	Packets  <-chan *protocol.Packet
	Commands <-chan protocol.ServerCommand
	Events   chan<- protocol.ServerEvent
	Logger   logging.Logger
}

// NewServer constructs a server of the given type. Text servers answer
// with the request payload echoed back; media servers answer with a
// content tag.
func NewServer(st topology.ServerType, p ServerParams) Runner {
	if p.Logger == nil {
		p.Logger = logging.NewNopLogger()
	}
	return &server{
		id:        p.ID,
		kind:      st,
		packets:   p.Packets,
		commands:  p.Commands,
		events:    p.Events,
		neighbors: make(map[topology.NodeID]chan<- *protocol.Packet),
		log:       p.Logger.With(logging.Node(p.ID), logging.F("type", st.String())),
	}
}

type server struct {
	id        topology.NodeID
	kind      topology.ServerType
	packets   <-chan *protocol.Packet
	commands  <-chan protocol.ServerCommand
	events    chan<- protocol.ServerEvent
	neighbors map[topology.NodeID]chan<- *protocol.Packet
	log       logging.Logger
}

// Run consumes commands and packets until shutdown.
func (s *server) Run() {
	for {
		select {
		case cmd, ok := <-s.commands:
			if !ok {
				return
			}
			switch cmd.Kind {
			case protocol.EdgeAddSender:
				s.neighbors[cmd.Neighbor] = cmd.Sender
			case protocol.EdgeRemoveSender:
				delete(s.neighbors, cmd.Neighbor)
			case protocol.EdgeShutdown:
				s.emit(protocol.ServerEvent{Kind: protocol.EdgeStopped, Node: s.id})
				return
			}
		case pkt := <-s.packets:
			s.handlePacket(pkt)
		}
	}
}

// handlePacket answers message packets along the reversed route.
func (s *server) handlePacket(pkt *protocol.Packet) {
	s.emit(protocol.ServerEvent{Kind: protocol.EdgePacketReceived, Node: s.id, Packet: pkt})
	if pkt.Kind != protocol.PacketMessage {
		return
	}

	reply := &protocol.Packet{
		Session: pkt.Session,
		Kind:    protocol.PacketMessage,
		Routing: pkt.Routing.Reversed(),
		Payload: s.answer(pkt.Payload),
	}
	next, ok := reply.Routing.NextHop()
	if !ok {
		return
	}
	sender, ok := s.neighbors[next]
	if !ok {
		s.log.Warn("reply path not yet wired", logging.F("next", uint8(next)))
		return
	}
	reply.Routing = reply.Routing.Advance()
	select {
	case sender <- reply:
		s.emit(protocol.ServerEvent{Kind: protocol.EdgePacketSent, Node: s.id, Packet: reply})
	default:
	}
}

func (s *server) answer(request []byte) []byte {
	switch s.kind {
	case topology.ServerTypeMedia:
		return fmt.Appendf(nil, "media:%d-bytes", len(request))
	default:
		return request
	}
}

func (s *server) emit(ev protocol.ServerEvent) {
	select {
	case s.events <- ev:
	default:
	}
}
