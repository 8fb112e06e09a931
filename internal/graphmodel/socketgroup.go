package graphmodel

import (
	"fmt"

	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// SocketGroup is a named, ordered, runtime-dynamic collection of sockets on
// one Node sharing a socket-group identifier. Groups joined by AddSyncGroup
// form a synchronization set: adding or removing a socket in one member
// mirrors the same operation, at the same ordinal, in every peer (spec §3,
// invariant "socket groups within a synchronization set have identical
// socket counts; peer sockets are identified by position, not identifier").
type SocketGroup struct {
	Identifier string
	Node       *Node
	Direction  nodekind.Direction
	ElemType   typed.SocketType
	Optional   bool

	// Sockets is ordered; peers in a sync set are matched by index, never
	// by Identifier.
	Sockets []*NodeSocket

	peers []*SocketGroup
}

// AddSyncGroup joins g and other into the same synchronization set. Both
// groups must currently hold the same number of sockets.
func (g *SocketGroup) AddSyncGroup(other *SocketGroup) error {
	if len(g.Sockets) != len(other.Sockets) {
		return fmt.Errorf("graphmodel: cannot sync socket groups %q and %q with different sizes (%d vs %d)",
			g.Identifier, other.Identifier, len(g.Sockets), len(other.Sockets))
	}
	g.peers = append(g.peers, other)
	other.peers = append(other.peers, g)
	return nil
}

// syncSet returns g and every group transitively joined to it.
func (g *SocketGroup) syncSet() []*SocketGroup {
	seen := map[*SocketGroup]bool{g: true}
	order := []*SocketGroup{g}
	for i := 0; i < len(order); i++ {
		for _, p := range order[i].peers {
			if !seen[p] {
				seen[p] = true
				order = append(order, p)
			}
		}
	}
	return order
}

// AddSocket appends a new socket to g and to every peer in its
// synchronization set, at the same ordinal.
func (g *SocketGroup) AddSocket(tree *NodeTree, identifier, uiName string) []*NodeSocket {
	set := g.syncSet()
	created := make([]*NodeSocket, 0, len(set))
	for _, peer := range set {
		s := tree.newSocket(peer.Node, peer.Direction, peer.ElemType, identifier, uiName)
		s.SocketGroupIdentifier = peer.Identifier
		s.Group = peer
		s.Optional = peer.Optional
		peer.Sockets = append(peer.Sockets, s)
		if peer.Direction == nodekind.Input {
			s.Data = &DataField{}
			peer.Node.Inputs = append(peer.Node.Inputs, s)
		} else {
			peer.Node.Outputs = append(peer.Node.Outputs, s)
		}
		created = append(created, s)
	}
	tree.markDirty()
	return created
}

// RemoveSocket removes the socket at index i from g and the socket at the
// same ordinal from every synchronized peer. It is a no-op — no change to
// any peer — if any mirror socket at that ordinal is still linked, per the
// spec's P4 property.
func (g *SocketGroup) RemoveSocket(tree *NodeTree, i int) error {
	if i < 0 || i >= len(g.Sockets) {
		return fmt.Errorf("graphmodel: socket group %q has no socket at index %d", g.Identifier, i)
	}
	set := g.syncSet()
	for _, peer := range set {
		if i >= len(peer.Sockets) {
			return fmt.Errorf("graphmodel: socket group %q out of sync with peer %q", g.Identifier, peer.Identifier)
		}
		if len(peer.Sockets[i].directlyLinkedLinks) > 0 {
			return fmt.Errorf("graphmodel: cannot remove socket %d: still linked on group %q", i, peer.Identifier)
		}
	}
	for _, peer := range set {
		s := peer.Sockets[i]
		peer.Sockets = append(peer.Sockets[:i], peer.Sockets[i+1:]...)
		peer.Node.removeSocket(s)
		delete(tree.sockets, s.ID)
	}
	tree.markDirty()
	return nil
}
