package graphmodel

import (
	"fmt"

	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
)

// AddLinkOptions controls AddLink's edge-case behavior.
type AddLinkOptions struct {
	// AllowRelinkToOutput permits wiring a new link into an input socket
	// that already has one, replacing it. Without it, linking an
	// already-wired input is rejected.
	AllowRelinkToOutput bool
	// RefreshTopology, if false, defers EnsureTopologyCache to a later
	// batched call (used when the caller is about to make several
	// mutations and wants one recompute at the end).
	RefreshTopology bool
}

// DeleteLinkOptions controls DeleteLink's edge-case behavior.
type DeleteLinkOptions struct {
	RefreshTopology bool
	RemoveFromGroup bool
}

// CanCreateLink reports whether AddLink(from, to, ...) would succeed,
// without performing the mutation. It is exposed separately because editors
// use it to give live feedback while dragging a link.
func (t *NodeTree) CanCreateLink(from, to *NodeSocket, opts AddLinkOptions) error {
	if from.Direction != nodekind.Output {
		return fmt.Errorf("graphmodel: link source must be an output socket")
	}
	if to.Direction != nodekind.Input {
		return fmt.Errorf("graphmodel: link destination must be an input socket")
	}
	if from.Node == to.Node {
		return fmt.Errorf("graphmodel: cannot link a node to itself")
	}
	if len(t.linksTouching(to)) > 0 && !opts.AllowRelinkToOutput {
		return fmt.Errorf("graphmodel: input socket %q is already linked", to.Identifier)
	}
	if from.HasType() && to.HasType() && !from.Type.Equal(to.Type) {
		if _, ok := t.kinds.LookupConversion(from.Type, to.Type); !ok {
			return fmt.Errorf("graphmodel: no conversion registered from %q to %q", from.Type.Name(), to.Type.Name())
		}
	}
	if t.wouldCreateCycle(from.Node, to.Node) {
		return fmt.Errorf("graphmodel: link would create a cycle")
	}
	return nil
}

// AddLink creates a directed edge from an output socket to an input socket.
// If the socket types differ but a conversion kind is registered for the
// pair, an invisible conversion node is auto-inserted and two physical
// links are created; the returned NodeLink is the first segment and
// represents the whole logical edge to callers.
func (t *NodeTree) AddLink(from, to *NodeSocket, opts AddLinkOptions) (*NodeLink, error) {
	if err := t.CanCreateLink(from, to, opts); err != nil {
		return nil, err
	}

	if opts.AllowRelinkToOutput {
		for _, l := range t.linksTouching(to) {
			_ = t.DeleteLink(l.ID, DeleteLinkOptions{})
		}
	}

	if from.HasType() && to.HasType() && !from.Type.Equal(to.Type) {
		convIDName, _ := t.kinds.LookupConversion(from.Type, to.Type)
		link, err := t.addLinkWithConversion(from, to, convIDName)
		if err != nil {
			return nil, err
		}
		if opts.RefreshTopology {
			t.EnsureTopologyCache()
		} else {
			t.markDirty()
		}
		return link, nil
	}

	link := &NodeLink{ID: newLinkId(), From: from, To: to, Tree: t}
	t.Links[link.ID] = link
	if opts.RefreshTopology {
		t.EnsureTopologyCache()
	} else {
		t.markDirty()
	}
	return link, nil
}

func (t *NodeTree) addLinkWithConversion(from, to *NodeSocket, convIDName string) (*NodeLink, error) {
	convNode, err := t.AddNode(convIDName)
	if err != nil {
		return nil, fmt.Errorf("graphmodel: failed to insert conversion node %q: %w", convIDName, err)
	}
	convNode.TypeInfo.Invisible = true
	if len(convNode.Inputs) != 1 || len(convNode.Outputs) != 1 {
		return nil, fmt.Errorf("graphmodel: conversion kind %q must declare exactly one input and one output", convIDName)
	}

	first := &NodeLink{ID: newLinkId(), From: from, To: convNode.Inputs[0], Tree: t, ConversionNode: convNode}
	second := &NodeLink{ID: newLinkId(), From: convNode.Outputs[0], To: to, Tree: t}
	first.NextLink = second
	second.FromLink = first

	t.Links[first.ID] = first
	t.Links[second.ID] = second
	return first, nil
}

// DeleteLink removes a link (and, if it bridges a conversion node, both
// physical segments and the conversion node itself, regardless of which
// segment's id was passed in).
func (t *NodeTree) DeleteLink(id LinkId, opts DeleteLinkOptions) error {
	l, ok := t.Links[id]
	if !ok {
		return fmt.Errorf("graphmodel: no such link %q", id)
	}

	// A converted link is physically two segments bridged by an invisible
	// conversion node. Find the bridge's first segment regardless of which
	// segment id was passed in, and remove both segments from t.Links
	// before cascading into DeleteNode: DeleteNode re-derives its sockets'
	// touching links fresh from t.Links, and if either segment were still
	// present it would call back into DeleteLink on it, recursing forever.
	first := l
	if l.FromLink != nil {
		first = l.FromLink
	}
	delete(t.Links, first.ID)
	if first.NextLink != nil {
		delete(t.Links, first.NextLink.ID)
	}

	if first.ConversionNode != nil {
		_ = t.DeleteNode(first.ConversionNode.ID)
	}

	if opts.RemoveFromGroup && l.To.Group != nil {
		for i, s := range l.To.Group.Sockets {
			if s == l.To {
				_ = l.To.Group.RemoveSocket(t, i)
				break
			}
		}
	}

	if opts.RefreshTopology {
		t.EnsureTopologyCache()
	} else {
		t.markDirty()
	}
	return nil
}

// wouldCreateCycle reports whether adding an edge fromNode -> toNode would
// introduce a cycle, by checking whether toNode already reaches fromNode.
func (t *NodeTree) wouldCreateCycle(fromNode, toNode *Node) bool {
	if fromNode == toNode {
		return true
	}
	visited := map[NodeId]bool{}
	stack := []*Node{toNode}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n.ID] {
			continue
		}
		visited[n.ID] = true
		if n == fromNode {
			return true
		}
		for _, out := range n.Outputs {
			for _, l := range t.linksTouching(out) {
				stack = append(stack, l.LogicalTo().Node)
			}
		}
	}
	return false
}
