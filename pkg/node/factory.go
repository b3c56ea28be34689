package node

import "github.com/RustRoveri/network-initializer/pkg/topology"

// Variant assignment is round-robin over each kind's pool, computed as
// a pure function of the node's declaration index within its kind. The
// counter is scoped to one initializer call, never process-global, so
// initialization stays deterministic and testable.

// AssignDroneImpl returns the implementation for the index-th drone.
func AssignDroneImpl(index int) topology.DroneImpl {
	return topology.DroneImpl(index % topology.NumDroneImpls)
}

// AssignClientType returns the type for the index-th client.
func AssignClientType(index int) topology.ClientType {
	return topology.ClientType(index % topology.NumClientTypes)
}

// AssignServerType returns the type for the index-th server.
func AssignServerType(index int) topology.ServerType {
	return topology.ServerType(index % topology.NumServerTypes)
}
