package logging

import "github.com/RustRoveri/network-initializer/pkg/topology"

// Node builds the standard field for a node ID.
func Node(id topology.NodeID) Field {
	return F("node", uint8(id))
}

// Kind builds the standard field for a node kind.
func Kind(k topology.Kind) Field {
	return F("kind", k.String())
}

// Err builds the standard field for an error value.
func Err(err error) Field {
	return F("error", err.Error())
}
