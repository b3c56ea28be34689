// Package config defines the network configuration model and its YAML
// loader.
//
// A configuration is three ordered lists (drones, clients, servers)
// describing the nodes to spawn and the edges between them. The loader
// performs file-shape validation only; graph validation is the job of
// pkg/validation, which consumes the Config unchanged.
package config

import (
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// Drone describes one relay node: its ID, the IDs it is linked to, and
// its packet drop rate in [0, 1].
type Drone struct {
	ID        topology.NodeID   `yaml:"id"`
	Connected []topology.NodeID `yaml:"connected"`
	PDR       float64           `yaml:"pdr" validate:"gte=0,lte=1"`
}

// Client describes one traffic-originating edge node. Clients may only
// be linked to drones.
type Client struct {
	ID        topology.NodeID   `yaml:"id"`
	Connected []topology.NodeID `yaml:"connected" validate:"min=1,max=2"`
}

// Server describes one traffic-terminating edge node. Servers may only
// be linked to drones.
type Server struct {
	ID        topology.NodeID   `yaml:"id"`
	Connected []topology.NodeID `yaml:"connected" validate:"min=2"`
}

// Config is the immutable, parsed form of the user-supplied topology
// description. It is the sole input to validation and initialization.
type Config struct {
	Drones  []Drone  `yaml:"drones" validate:"dive"`
	Clients []Client `yaml:"clients" validate:"dive"`
	Servers []Server `yaml:"servers" validate:"dive"`
}

// Len returns the total number of declared nodes.
func (c *Config) Len() int {
	return len(c.Drones) + len(c.Clients) + len(c.Servers)
}
