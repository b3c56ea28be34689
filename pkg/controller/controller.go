// Package controller supervises a running mesh: it commands individual
// nodes by ID through the kind-tagged handles produced at assembly, and
// pumps the three per-kind event streams onto a pubsub bus for UI
// consumers.
package controller

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RustRoveri/network-initializer/pkg/initializer"
	"github.com/RustRoveri/network-initializer/pkg/logging"
	"github.com/RustRoveri/network-initializer/pkg/protocol"
	"github.com/RustRoveri/network-initializer/pkg/pubsub"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// Pubsub topics the event pump publishes on.
const (
	TopicDroneEvents  = "events.drone"
	TopicClientEvents = "events.client"
	TopicServerEvents = "events.server"
)

var (
	// ErrUnknownNode: the ID does not name a declared node.
	ErrUnknownNode = errors.New("controller: unknown node")
	// ErrNotADrone: the command only applies to drones.
	ErrNotADrone = errors.New("controller: node is not a drone")
	// ErrNotAnEdgeNode: the command only applies to clients/servers.
	ErrNotAnEdgeNode = errors.New("controller: node is not a client or server")
)

// Event is the uniform view of any node event published on the bus.
type Event struct {
	Kind        topology.Kind
	Node        topology.NodeID
	Description string
	Packet      *protocol.Packet
}

// Controller owns the assembled network on behalf of the application.
type Controller struct {
	net *initializer.Network
	bus *pubsub.PubSub[Event]
	log logging.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New wraps an assembled network. Call Start to begin pumping events.
func New(net *initializer.Network, log logging.Logger) *Controller {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Controller{
		net:  net,
		bus:  pubsub.New[Event](),
		log:  log,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Network returns the assembled network.
func (c *Controller) Network() *initializer.Network {
	return c.net
}

// Bus returns the pubsub bus carrying republished node events.
func (c *Controller) Bus() *pubsub.PubSub[Event] {
	return c.bus
}

// Start launches the event pump. It drains the three per-kind event
// channels and republishes every event on its topic. Events from
// different nodes arrive in arbitrary interleaving; the pump preserves
// per-channel order only.
func (c *Controller) Start() {
	go c.pump()
}

// Stop halts the event pump and shuts the bus down. Node goroutines
// are not joined; they run until individually crashed or shut down.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	c.bus.Shutdown()
}

func (c *Controller) pump() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		case ev := <-c.net.DroneEvents.Recv:
			c.bus.Publish(TopicDroneEvents, Event{
				Kind:        topology.KindDrone,
				Node:        ev.Node,
				Description: droneEventName(ev.Kind),
				Packet:      ev.Packet,
			})
		case ev := <-c.net.ClientEvents.Recv:
			c.bus.Publish(TopicClientEvents, Event{
				Kind:        topology.KindClient,
				Node:        ev.Node,
				Description: edgeEventName(ev.Kind),
				Packet:      ev.Packet,
			})
		case ev := <-c.net.ServerEvents.Recv:
			c.bus.Publish(TopicServerEvents, Event{
				Kind:        topology.KindServer,
				Node:        ev.Node,
				Description: edgeEventName(ev.Kind),
				Packet:      ev.Packet,
			})
		}
	}
}

// Crash makes the drone at id exit its run loop.
func (c *Controller) Crash(id topology.NodeID) error {
	h, ok := c.net.Command(id)
	if !ok {
		return fmt.Errorf("%w: [%d]", ErrUnknownNode, id)
	}
	if h.Kind != topology.KindDrone {
		return fmt.Errorf("%w: [%d] is a %s", ErrNotADrone, id, h.Kind)
	}
	h.Drone <- protocol.DroneCommand{Kind: protocol.DroneCrash}
	return nil
}

// SetPacketDropRate replaces the PDR of the drone at id.
func (c *Controller) SetPacketDropRate(id topology.NodeID, pdr float64) error {
	if pdr < 0 || pdr > 1 {
		return fmt.Errorf("controller: invalid PDR %v for drone [%d]", pdr, id)
	}
	h, ok := c.net.Command(id)
	if !ok {
		return fmt.Errorf("%w: [%d]", ErrUnknownNode, id)
	}
	if h.Kind != topology.KindDrone {
		return fmt.Errorf("%w: [%d] is a %s", ErrNotADrone, id, h.Kind)
	}
	h.Drone <- protocol.DroneCommand{Kind: protocol.DroneSetPacketDropRate, PDR: pdr}
	return nil
}

// Shutdown makes the client or server at id exit its run loop.
func (c *Controller) Shutdown(id topology.NodeID) error {
	h, ok := c.net.Command(id)
	if !ok {
		return fmt.Errorf("%w: [%d]", ErrUnknownNode, id)
	}
	switch h.Kind {
	case topology.KindClient:
		h.Client <- protocol.ClientCommand{Kind: protocol.EdgeShutdown}
	case topology.KindServer:
		h.Server <- protocol.ServerCommand{Kind: protocol.EdgeShutdown}
	default:
		return fmt.Errorf("%w: [%d] is a %s", ErrNotAnEdgeNode, id, h.Kind)
	}
	return nil
}

func droneEventName(k protocol.DroneEventKind) string {
	switch k {
	case protocol.DronePacketSent:
		return "packet sent"
	case protocol.DronePacketDropped:
		return "packet dropped"
	case protocol.DroneCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

func edgeEventName(k protocol.EdgeEventKind) string {
	switch k {
	case protocol.EdgePacketSent:
		return "packet sent"
	case protocol.EdgePacketReceived:
		return "packet received"
	case protocol.EdgeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
