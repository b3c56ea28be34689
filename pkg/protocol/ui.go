package protocol

import "github.com/RustRoveri/network-initializer/pkg/topology"

// UIToClient is a request flowing from the UI layer into a client: send
// payload to the node at the end of the given path. The UI computes the
// path from the topology snapshot it received at assembly time.
type UIToClient struct {
	Hops    []topology.NodeID
	Payload []byte
}

// ClientToUI is a notification flowing from a client to its UI: either
// a payload delivered to the client or a status line about one of its
// own sends.
type ClientToUI struct {
	Source  topology.NodeID
	Payload []byte
	Status  string
}
