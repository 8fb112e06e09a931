package graphmodel

import (
	"fmt"

	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
)

// GroupInKind and GroupOutKind are the id_names of the placeholder kinds
// created inside a node-group's interior tree. They are registered lazily,
// once per kind registry, by ensureGroupPlaceholderKinds.
const (
	GroupInKind  = "builtin.group_in"
	GroupOutKind = "builtin.group_out"
)

func ensureGroupPlaceholderKinds(kinds *nodekind.Registry) {
	if _, ok := kinds.Lookup(GroupInKind); !ok {
		kinds.Register(&nodekind.TypeInfo{
			IDName:         GroupInKind,
			UIName:         "Group Input",
			Invisible:      true,
			AlwaysRequired: true,
		})
	}
	if _, ok := kinds.Lookup(GroupOutKind); !ok {
		kinds.Register(&nodekind.TypeInfo{
			IDName:         GroupOutKind,
			UIName:         "Group Output",
			Invisible:      true,
			AlwaysRequired: true,
		})
	}
}

// GroupUp moves the given nodes into a new interior NodeTree owned by a
// fresh NodeGroup node, and creates group-in/group-out placeholder nodes on
// the interior whose sockets mirror the group's externally visible
// inputs/outputs. Links crossing the group boundary are rewired through the
// placeholders; links entirely inside or entirely outside the selection are
// left untouched.
func (t *NodeTree) GroupUp(nodeIDs []NodeId) (*Node, error) {
	if len(nodeIDs) == 0 {
		return nil, fmt.Errorf("graphmodel: cannot group an empty node selection")
	}
	ensureGroupPlaceholderKinds(t.kinds)

	selected := make(map[NodeId]*Node, len(nodeIDs))
	for _, id := range nodeIDs {
		n, ok := t.Nodes[id]
		if !ok {
			return nil, fmt.Errorf("graphmodel: no such node %q", id)
		}
		selected[id] = n
	}

	groupNode := &Node{
		ID:           newNodeId(),
		TypeInfo:     &nodekind.TypeInfo{IDName: "builtin.node_group", UIName: "Group"},
		Tree:         t,
		insertionSeq: t.nextSeq,
	}
	t.nextSeq++
	interior := New(t.kinds, t.types)
	groupNode.SubTree = interior

	groupIn, _ := interior.AddNode(GroupInKind)
	groupOut, _ := interior.AddNode(GroupOutKind)

	// Boundary crossing: for every link with exactly one endpoint inside
	// the selection, mirror a socket on groupNode/groupIn or
	// groupNode/groupOut and rewire.
	for _, l := range t.Links {
		fromIn := selected[l.From.Node.ID] != nil
		toIn := selected[l.To.Node.ID] != nil
		switch {
		case fromIn && !toIn:
			extOut := t.newSocket(groupNode, nodekind.Output, l.From.Type, l.From.Identifier, l.From.UIName)
			groupNode.Outputs = append(groupNode.Outputs, extOut)
			intIn := interior.newSocket(groupOut, nodekind.Input, l.From.Type, l.From.Identifier, l.From.UIName)
			groupOut.Inputs = append(groupOut.Inputs, intIn)
			intLink := &NodeLink{ID: newLinkId(), From: l.From, To: intIn, Tree: interior}
			interior.Links[intLink.ID] = intLink
			l.From = extOut
		case !fromIn && toIn:
			extIn := t.newSocket(groupNode, nodekind.Input, l.To.Type, l.To.Identifier, l.To.UIName)
			extIn.Data = &DataField{}
			groupNode.Inputs = append(groupNode.Inputs, extIn)
			intOut := interior.newSocket(groupIn, nodekind.Output, l.To.Type, l.To.Identifier, l.To.UIName)
			groupIn.Outputs = append(groupIn.Outputs, intOut)
			intLink := &NodeLink{ID: newLinkId(), From: intOut, To: l.To, Tree: interior}
			interior.Links[intLink.ID] = intLink
			l.To = extIn
		}
	}

	// Move the selected nodes and their still-internal links into the
	// interior tree.
	for id, n := range selected {
		n.Tree = interior
		interior.Nodes[id] = n
		delete(t.Nodes, id)
	}
	for id, l := range t.Links {
		if selected[l.From.Node.ID] != nil && selected[l.To.Node.ID] != nil {
			interior.Links[id] = l
			l.Tree = interior
			delete(t.Links, id)
		}
	}

	t.Nodes[groupNode.ID] = groupNode
	interior.markDirty()
	t.markDirty()
	return groupNode, nil
}

// Ungroup dissolves a NodeGroup created by GroupUp, splicing its interior
// nodes and links back into t and reconnecting boundary links directly.
func (t *NodeTree) Ungroup(group *Node) error {
	if group.SubTree == nil {
		return fmt.Errorf("graphmodel: node %q is not a group", group.ID)
	}
	interior := group.SubTree

	for id, n := range interior.Nodes {
		if n.TypeInfo.IDName == GroupInKind || n.TypeInfo.IDName == GroupOutKind {
			continue
		}
		n.Tree = t
		t.Nodes[id] = n
	}
	for id, l := range interior.Links {
		if l.From.Node.TypeInfo.IDName == GroupInKind || l.To.Node.TypeInfo.IDName == GroupOutKind {
			continue
		}
		l.Tree = t
		t.Links[id] = l
	}

	// Reconnect boundary: links touching groupNode's external sockets must
	// be retargeted to whatever the matching group-in/group-out socket was
	// wired to internally. We match by identifier since both sides were
	// mirrored under the same identifier at GroupUp time.
	for _, l := range t.Links {
		for _, ext := range group.Inputs {
			if l.To == ext {
				if peer := findInteriorPeer(interior, GroupInKind, ext.Identifier); peer != nil {
					l.To = peer
				}
			}
		}
		for _, ext := range group.Outputs {
			if l.From == ext {
				if peer := findInteriorPeer(interior, GroupOutKind, ext.Identifier); peer != nil {
					l.From = peer
				}
			}
		}
	}

	delete(t.Nodes, group.ID)
	t.markDirty()
	return nil
}

// findInteriorPeer finds the socket, wired to the group-in/group-out
// placeholder under the given identifier, that lies on the "real" interior
// node rather than on the placeholder itself.
func findInteriorPeer(interior *NodeTree, placeholderKind, identifier string) *NodeSocket {
	for _, n := range interior.Nodes {
		if n.TypeInfo.IDName != placeholderKind {
			continue
		}
		ph, _ := n.Socket(identifier)
		if ph == nil {
			continue
		}
		for _, l := range interior.Links {
			if l.From == ph {
				return l.To
			}
			if l.To == ph {
				return l.From
			}
		}
	}
	return nil
}
