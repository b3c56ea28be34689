// Package topology holds the static description of a mesh network:
// node identities, node kinds with their implementation variants,
// fixed-capacity neighbor sets, and the full topology snapshot handed
// to the simulation controller and the UI.
//
// Everything in this package is plain data. Validation lives in
// pkg/validation and runtime wiring in pkg/initializer.
package topology

// NodeID identifies a node in the mesh network.
//
// IDs double as direct indexes into the fixed-size tables built during
// initialization, which is why the type is a small unsigned integer
// rather than an opaque key: every valid ID is known in advance and
// lookups are O(1) array accesses, never hashes.
type NodeID uint8

// MaxNodes is the capacity of every NodeID-indexed table. A NodeID is
// a uint8, so the whole network is bounded at 256 nodes.
const MaxNodes = 256
