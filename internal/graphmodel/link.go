package graphmodel

// NodeLink is a directed edge from an output socket to an input socket.
//
// When a link bridges two sockets of different registered types via an
// auto-inserted invisible conversion node, the user-visible NodeLink is the
// *first* physical segment (From -> conversion node's input); NextLink
// chains to the second physical segment (conversion node's output -> To),
// and that segment's FromLink points back. Logically the link is still
// (From, To); physically it is two edges, exactly as spec §3 describes.
type NodeLink struct {
	ID       LinkId
	From     *NodeSocket
	To       *NodeSocket
	Tree     *NodeTree

	// NextLink/FromLink chain the physical segments of a conversion-node
	// bridge. Both are nil for a direct link.
	NextLink *NodeLink
	FromLink *NodeLink

	// ConversionNode is set on the first segment of a conversion-node
	// bridge, pointing at the invisible node inserted between From and To.
	ConversionNode *Node
}

// LogicalTo returns the input socket a consumer should treat as this link's
// destination: To on a direct link, or the downstream link's To if this
// link is the first segment of a conversion bridge.
func (l *NodeLink) LogicalTo() *NodeSocket {
	if l.NextLink != nil {
		return l.NextLink.LogicalTo()
	}
	return l.To
}

// LogicalFrom returns the output socket a consumer should treat as this
// link's source.
func (l *NodeLink) LogicalFrom() *NodeSocket {
	if l.FromLink != nil {
		return l.FromLink.LogicalFrom()
	}
	return l.From
}
