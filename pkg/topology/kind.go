package topology

import "fmt"

// Kind discriminates the three node categories plus the empty slot.
type Kind uint8

const (
	// KindNone marks a topology slot with no declared node.
	KindNone Kind = iota
	// KindDrone marks a packet-relaying drone.
	KindDrone
	// KindClient marks a traffic-originating client.
	KindClient
	// KindServer marks a traffic-terminating server.
	KindServer
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindDrone:
		return "drone"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// DroneImpl selects one of the interchangeable drone implementations.
// Implementations share the same wire contract and differ only in
// internal forwarding strategy; the initializer assigns them round-robin.
type DroneImpl uint8

const (
	// DroneImplRelay is the baseline forwarding drone.
	DroneImplRelay DroneImpl = iota
	// DroneImplTracing forwards like the baseline and logs every hop.
	DroneImplTracing
	// DroneImplStrict rejects packets whose routing header does not
	// name the drone as the current hop.
	DroneImplStrict

	// NumDroneImpls is the size of the drone implementation pool.
	NumDroneImpls = 3
)

// String returns the implementation name.
func (d DroneImpl) String() string {
	switch d {
	case DroneImplRelay:
		return "relay"
	case DroneImplTracing:
		return "tracing"
	case DroneImplStrict:
		return "strict"
	default:
		return fmt.Sprintf("impl(%d)", uint8(d))
	}
}

// ClientType selects the client variant, which decides which UI is
// attached to the client's channel pair.
type ClientType uint8

const (
	// ClientTypeChat exchanges chat messages with other clients.
	ClientTypeChat ClientType = iota
	// ClientTypeBrowser requests content from servers.
	ClientTypeBrowser

	// NumClientTypes is the size of the client type pool.
	NumClientTypes = 2
)

// String returns the client type name.
func (c ClientType) String() string {
	switch c {
	case ClientTypeChat:
		return "chat"
	case ClientTypeBrowser:
		return "browser"
	default:
		return fmt.Sprintf("client(%d)", uint8(c))
	}
}

// ServerType selects the server variant.
type ServerType uint8

const (
	// ServerTypeText serves text content.
	ServerTypeText ServerType = iota
	// ServerTypeMedia serves media content.
	ServerTypeMedia

	// NumServerTypes is the size of the server type pool.
	NumServerTypes = 2
)

// String returns the server type name.
func (s ServerType) String() string {
	switch s {
	case ServerTypeText:
		return "text"
	case ServerTypeMedia:
		return "media"
	default:
		return fmt.Sprintf("server(%d)", uint8(s))
	}
}

// NodeKind is the tagged variant stored in a topology slot: the node
// category plus its kind-specific data (PDR and implementation for
// drones, type for clients and servers).
type NodeKind struct {
	Kind   Kind
	PDR    float64    // drones only
	Impl   DroneImpl  // drones only
	Client ClientType // clients only
	Server ServerType // servers only
}

// DroneKind builds the NodeKind for a drone slot.
func DroneKind(pdr float64, impl DroneImpl) NodeKind {
	return NodeKind{Kind: KindDrone, PDR: pdr, Impl: impl}
}

// ClientKind builds the NodeKind for a client slot.
func ClientKind(ct ClientType) NodeKind {
	return NodeKind{Kind: KindClient, Client: ct}
}

// ServerKind builds the NodeKind for a server slot.
func ServerKind(st ServerType) NodeKind {
	return NodeKind{Kind: KindServer, Server: st}
}

// Variant returns the variant name for the node kind, used for
// distribution reporting and metrics labels.
func (nk NodeKind) Variant() string {
	switch nk.Kind {
	case KindDrone:
		return nk.Impl.String()
	case KindClient:
		return nk.Client.String()
	case KindServer:
		return nk.Server.String()
	default:
		return "none"
	}
}
