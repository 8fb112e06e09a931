package graphmodel

import "github.com/Jerry-Shen0527/rznode/internal/nodekind"

// Node is a computation unit instantiated from a nodekind.TypeInfo.
type Node struct {
	ID       NodeId
	TypeInfo *nodekind.TypeInfo
	Tree     *NodeTree

	Inputs       []*NodeSocket
	Outputs      []*NodeSocket
	SocketGroups []*SocketGroup

	// insertionSeq records AddNode order and is the tie-break for toposort
	// stability (spec §4.4); uuids are not themselves orderable.
	insertionSeq int64

	// Per-run executor flags. The executor's compile step resets Required;
	// MissingInput and ExecutionFailed keep their value until the executor
	// next writes them.
	Required        bool
	MissingInput    bool
	ExecutionFailed string

	// PairedNode links e.g. a simulation_out node to its simulation_in
	// counterpart (spec §4.5.5). Symmetric: a.PairedNode == b implies
	// b.PairedNode == a.
	PairedNode *Node

	// SubTree is non-nil only for a NodeGroup (spec §3).
	SubTree *NodeTree

	// Output/placeholder-run bookkeeping used by higher layers; the core
	// graph model does not interpret it.
	Output any
}

// Socket looks up one of the node's own sockets by identifier.
func (n *Node) Socket(identifier string) (*NodeSocket, bool) {
	for _, s := range n.Inputs {
		if s.Identifier == identifier {
			return s, true
		}
	}
	for _, s := range n.Outputs {
		if s.Identifier == identifier {
			return s, true
		}
	}
	return nil, false
}

// SocketGroupByIdentifier looks up one of the node's own dynamic socket
// groups by identifier and direction.
func (n *Node) SocketGroupByIdentifier(identifier string, dir nodekind.Direction) (*SocketGroup, bool) {
	for _, g := range n.SocketGroups {
		if g.Identifier == identifier && g.Direction == dir {
			return g, true
		}
	}
	return nil, false
}

// removeSocket deletes s from whichever of Inputs/Outputs holds it.
func (n *Node) removeSocket(s *NodeSocket) {
	n.Inputs = removeSocketFromSlice(n.Inputs, s)
	n.Outputs = removeSocketFromSlice(n.Outputs, s)
}

func removeSocketFromSlice(slice []*NodeSocket, s *NodeSocket) []*NodeSocket {
	for i, cand := range slice {
		if cand == s {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
