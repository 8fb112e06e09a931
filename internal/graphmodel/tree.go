package graphmodel

import (
	"fmt"

	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// NodeTree owns every Node and NodeLink in a graph, plus the derived
// topology cache described in internal/graphmodel/topology.go.
type NodeTree struct {
	Nodes map[NodeId]*Node
	Links map[LinkId]*NodeLink
	// UISettings is an opaque blob the core never interprets.
	UISettings string

	sockets map[SocketId]*NodeSocket

	kinds *nodekind.Registry
	types *typed.Registry

	nextSeq int64

	dirty bool

	// topology cache, see topology.go
	topoValid        bool
	leftToRight      []NodeId
	rightToLeft      []NodeId
	hasAvailableLinkCycle bool
}

// New creates an empty NodeTree bound to the given kind and type registries.
func New(kinds *nodekind.Registry, types *typed.Registry) *NodeTree {
	return &NodeTree{
		Nodes:   make(map[NodeId]*Node),
		Links:   make(map[LinkId]*NodeLink),
		sockets: make(map[SocketId]*NodeSocket),
		kinds:   kinds,
		types:   types,
		dirty:   true,
	}
}

func (t *NodeTree) markDirty() {
	t.dirty = true
	t.topoValid = false
}

// Dirty reports whether the tree has been mutated since the last
// EnsureTopologyCache.
func (t *NodeTree) Dirty() bool { return t.dirty }

// AddNode constructs a Node from a registered kind's declaration, allocates
// its sockets, and copies declared defaults into each input's DataField.
func (t *NodeTree) AddNode(idName string) (*Node, error) {
	info, ok := t.kinds.Lookup(idName)
	if !ok {
		return nil, fmt.Errorf("graphmodel: unknown node kind %q", idName)
	}
	return t.addNodeFromTypeInfo(info)
}

func (t *NodeTree) addNodeFromTypeInfo(info *nodekind.TypeInfo) (*Node, error) {
	n := &Node{
		ID:           newNodeId(),
		TypeInfo:     info,
		Tree:         t,
		insertionSeq: t.nextSeq,
	}
	t.nextSeq++

	decl := nodekind.Declare(info)
	for _, in := range decl.Inputs {
		s := t.newSocket(n, nodekind.Input, in.Type, in.Identifier, in.UIName)
		s.Optional = in.Optional
		s.SocketGroupIdentifier = in.SocketGroupIdentifier
		data := &DataField{}
		if in.Default != nil {
			v := in.Default.Copy()
			data.Value = &v
		}
		if in.Min != nil {
			v := in.Min.Copy()
			data.Min = &v
		}
		if in.Max != nil {
			v := in.Max.Copy()
			data.Max = &v
		}
		s.Data = data
		n.Inputs = append(n.Inputs, s)
	}
	for _, out := range decl.Outputs {
		s := t.newSocket(n, nodekind.Output, out.Type, out.Identifier, out.UIName)
		s.SocketGroupIdentifier = out.SocketGroupIdentifier
		n.Outputs = append(n.Outputs, s)
	}
	for _, g := range decl.SocketGroups {
		n.SocketGroups = append(n.SocketGroups, &SocketGroup{
			Identifier: g.Identifier,
			Node:       n,
			Direction:  g.Direction,
			ElemType:   g.ElemType,
			Optional:   g.Optional,
		})
	}

	t.Nodes[n.ID] = n
	t.markDirty()

	for _, req := range info.SynchronizationRequirement {
		companionInfo, ok := t.kinds.Lookup(req.CompanionKind)
		if !ok {
			return nil, fmt.Errorf("graphmodel: kind %q declares a synchronization requirement on unknown companion kind %q", info.IDName, req.CompanionKind)
		}
		companion, err := t.addNodeFromTypeInfo(companionInfo)
		if err != nil {
			return nil, err
		}
		n.PairedNode = companion
		companion.PairedNode = n

		if req.Group != "" {
			own, ok := n.SocketGroupByIdentifier(req.Group, req.Direction)
			peer, ok2 := companion.SocketGroupByIdentifier(req.Group, req.Direction)
			if ok && ok2 {
				if err := own.AddSyncGroup(peer); err != nil {
					return nil, fmt.Errorf("graphmodel: pairing synchronization requirement group %q: %w", req.Group, err)
				}
			}
		}
	}

	return n, nil
}

func (t *NodeTree) newSocket(n *Node, dir nodekind.Direction, typ typed.SocketType, identifier, uiName string) *NodeSocket {
	s := &NodeSocket{
		ID:         newSocketId(),
		Node:       n,
		Direction:  dir,
		Type:       typ,
		Identifier: identifier,
		UIName:     uiName,
	}
	t.sockets[s.ID] = s
	return s
}

// FindNode looks up a node by id.
func (t *NodeTree) FindNode(id NodeId) (*Node, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}

// FindPin looks up a socket by id.
func (t *NodeTree) FindPin(id SocketId) (*NodeSocket, bool) {
	s, ok := t.sockets[id]
	return s, ok
}

// FindLink looks up a link by id.
func (t *NodeTree) FindLink(id LinkId) (*NodeLink, bool) {
	l, ok := t.Links[id]
	return l, ok
}

// SocketCount returns the number of sockets currently in the tree.
func (t *NodeTree) SocketCount() int { return len(t.sockets) }

// Clear removes every node and link from the tree.
func (t *NodeTree) Clear() {
	t.Nodes = make(map[NodeId]*Node)
	t.Links = make(map[LinkId]*NodeLink)
	t.sockets = make(map[SocketId]*NodeSocket)
	t.nextSeq = 0
	t.markDirty()
}

// DeleteNode removes a node, all sockets it owns, and every link touching
// those sockets (including any invisible conversion nodes that become
// dangling as a result).
func (t *NodeTree) DeleteNode(id NodeId) error {
	n, ok := t.Nodes[id]
	if !ok {
		return fmt.Errorf("graphmodel: no such node %q", id)
	}
	// Removed up front, not after the touching-link cleanup below: deleting
	// a node that is itself an invisible conversion node makes DeleteLink's
	// cascade call back into DeleteNode(id) for the same id, and that
	// re-entrant call must see it as already gone rather than loop forever.
	delete(t.Nodes, id)
	for _, s := range append(append([]*NodeSocket{}, n.Inputs...), n.Outputs...) {
		for _, l := range t.linksTouching(s) {
			_ = t.DeleteLink(l.ID, DeleteLinkOptions{RefreshTopology: false})
		}
		delete(t.sockets, s.ID)
	}
	if n.PairedNode != nil {
		n.PairedNode.PairedNode = nil
		n.PairedNode = nil
	}
	t.markDirty()
	return nil
}

// linksTouching returns every link directly attached to socket s (before
// any conversion-chain collapsing).
func (t *NodeTree) linksTouching(s *NodeSocket) []*NodeLink {
	var out []*NodeLink
	for _, l := range t.Links {
		if l.From == s || l.To == s {
			out = append(out, l)
		}
	}
	return out
}

// Kinds returns the node-kind registry the tree was constructed with.
func (t *NodeTree) Kinds() *nodekind.Registry { return t.kinds }

// Types returns the type registry the tree was constructed with.
func (t *NodeTree) Types() *typed.Registry { return t.types }
