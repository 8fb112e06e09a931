package graphmodel

import (
	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// DataField holds the input-only default/min/max fields of a NodeSocket. A
// nil Value means "no default; must be wired", per spec §3.
type DataField struct {
	Value *typed.Any
	Min   *typed.Any
	Max   *typed.Any
}

// NodeSocket is a typed pin attached to exactly one Node.
type NodeSocket struct {
	ID   SocketId
	Node *Node

	Direction nodekind.Direction
	// Type may be the zero SocketType for a polymorphic "storage" socket
	// (the value input of a func_storage_in node, or the output of a
	// func_storage_out node before its type is known).
	Type       typed.SocketType
	Identifier string
	UIName     string
	Optional   bool

	SocketGroupIdentifier string
	Group                 *SocketGroup

	// DataField is non-nil only for input sockets.
	Data *DataField

	// Adjacency, refreshed by EnsureTopologyCache. Non-owning: entries are
	// always looked up through the owning NodeTree's maps.
	directlyLinkedLinks   []*NodeLink
	directlyLinkedSockets []*NodeSocket
}

// HasType reports whether the socket carries a concrete registered type.
func (s *NodeSocket) HasType() bool { return !s.Type.IsZero() }

// DirectlyLinkedLinks returns the links resolved to reach this socket's
// logical peers, collapsing any invisible conversion-node chains.
func (s *NodeSocket) DirectlyLinkedLinks() []*NodeLink { return s.directlyLinkedLinks }

// DirectlyLinkedSockets returns the peer sockets resolved for this socket,
// collapsing any invisible conversion-node chains.
func (s *NodeSocket) DirectlyLinkedSockets() []*NodeSocket { return s.directlyLinkedSockets }
