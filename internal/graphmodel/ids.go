package graphmodel

import "github.com/google/uuid"

// NodeId, SocketId and LinkId are stable identifiers, unique within a single
// NodeTree. The original uses raw pointers for identity; this replacement
// uses opaque uuid-backed strings so the tree's maps can own every Node,
// NodeSocket and NodeLink without any internal pointer chasing surviving a
// deletion (spec §9, "pointer-heavy graph -> arena + stable ids").
type NodeId string
type SocketId string
type LinkId string

func newNodeId() NodeId     { return NodeId(uuid.NewString()) }
func newSocketId() SocketId { return SocketId(uuid.NewString()) }
func newLinkId() LinkId     { return LinkId(uuid.NewString()) }
