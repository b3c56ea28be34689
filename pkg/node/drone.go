package node

import (
	"fmt"
	"math/rand"

	"github.com/RustRoveri/network-initializer/pkg/logging"
	"github.com/RustRoveri/network-initializer/pkg/metrics"
	"github.com/RustRoveri/network-initializer/pkg/protocol"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// DroneParams carries the spawn-time contract for a drone: identity,
// receive ends, the shared drone event send end, and the ambient stack.
type DroneParams struct {
	ID       topology.NodeID
	PDR      float64
	Packets  <-chan *protocol.Packet
	Commands <-chan protocol.DroneCommand
	Events   chan<- protocol.DroneEvent
	Logger   logging.Logger
	Metrics  *metrics.Registry
}

// ForgeDrone constructs the drone variant selected by impl. An unknown
// implementation is an error; the initializer treats it as fatal since
// an unspawned node would leave channel ends with no consumer.
func ForgeDrone(impl topology.DroneImpl, p DroneParams) (Runner, error) {
	if p.Logger == nil {
		p.Logger = logging.NewNopLogger()
	}
	d := &drone{
		id:        p.ID,
		pdr:       p.PDR,
		packets:   p.Packets,
		commands:  p.Commands,
		events:    p.Events,
		neighbors: make(map[topology.NodeID]chan<- *protocol.Packet),
		rng:       rand.New(rand.NewSource(int64(p.ID) + 1)),
		log:       p.Logger.With(logging.Node(p.ID), logging.F("impl", impl.String())),
		metrics:   p.Metrics,
	}
	switch impl {
	case topology.DroneImplRelay:
		return d, nil
	case topology.DroneImplTracing:
		d.trace = true
		return d, nil
	case topology.DroneImplStrict:
		d.strict = true
		return d, nil
	default:
		return nil, fmt.Errorf("unknown drone implementation: %s", impl)
	}
}

// drone is the shared chassis of all drone implementations. Variants
// differ only in the trace and strict toggles; the wire contract is
// identical.
type drone struct {
	id        topology.NodeID
	pdr       float64
	packets   <-chan *protocol.Packet
	commands  <-chan protocol.DroneCommand
	events    chan<- protocol.DroneEvent
	neighbors map[topology.NodeID]chan<- *protocol.Packet
	rng       *rand.Rand
	log       logging.Logger
	metrics   *metrics.Registry

	trace  bool
	strict bool
}

// Run consumes commands and packets until a crash command arrives or
// the command channel closes.
func (d *drone) Run() {
	for {
		select {
		case cmd, ok := <-d.commands:
			if !ok {
				return
			}
			if d.handleCommand(cmd) {
				d.emit(protocol.DroneEvent{Kind: protocol.DroneCrashed, Node: d.id})
				return
			}
		case pkt := <-d.packets:
			d.handlePacket(pkt)
		}
	}
}

// handleCommand applies one control message. Returns true on crash.
func (d *drone) handleCommand(cmd protocol.DroneCommand) bool {
	switch cmd.Kind {
	case protocol.DroneAddSender:
		d.neighbors[cmd.Neighbor] = cmd.Sender
	case protocol.DroneRemoveSender:
		delete(d.neighbors, cmd.Neighbor)
	case protocol.DroneSetPacketDropRate:
		d.pdr = cmd.PDR
	case protocol.DroneCrash:
		d.log.Info("drone crashing on command")
		return true
	}
	return false
}

func (d *drone) handlePacket(pkt *protocol.Packet) {
	if d.strict {
		if hop, ok := pkt.Routing.CurrentHop(); !ok || hop != d.id {
			d.log.Warn("packet not routed through this drone", logging.F("session", pkt.Session.String()))
			d.drop(pkt)
			return
		}
	}

	if d.rng.Float64() < d.pdr {
		d.drop(pkt)
		return
	}

	next, ok := pkt.Routing.NextHop()
	if !ok {
		// A drone is never a destination; a packet with no next hop
		// is misrouted.
		d.drop(pkt)
		return
	}
	sender, ok := d.neighbors[next]
	if !ok {
		// Neighbor not yet wired, or never declared.
		d.drop(pkt)
		return
	}

	fwd := *pkt
	fwd.Routing = pkt.Routing.Advance()
	select {
	case sender <- &fwd:
		if d.trace {
			d.log.Info("forwarded", logging.F("packet", fwd.String()), logging.F("next", uint8(next)))
		}
		if d.metrics != nil {
			d.metrics.PacketsForwardedTotal.Inc()
		}
		d.emit(protocol.DroneEvent{Kind: protocol.DronePacketSent, Node: d.id, Packet: &fwd})
	default:
		d.drop(pkt)
	}
}

func (d *drone) drop(pkt *protocol.Packet) {
	if d.trace {
		d.log.Info("dropped", logging.F("packet", pkt.String()))
	}
	if d.metrics != nil {
		d.metrics.PacketsDroppedTotal.Inc()
	}
	d.emit(protocol.DroneEvent{Kind: protocol.DronePacketDropped, Node: d.id, Packet: pkt})
}

// emit reports an event without ever blocking the run loop.
func (d *drone) emit(ev protocol.DroneEvent) {
	select {
	case d.events <- ev:
	default:
	}
}
