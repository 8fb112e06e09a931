package graphmodel

import "sort"

// EnsureTopologyCache recomputes the toposort (both directions), the cycle
// flag, and the per-socket resolved adjacency if the tree has been mutated
// since the last call. It is idempotent — calling it on a clean tree is a
// no-op, per spec §4.4.
func (t *NodeTree) EnsureTopologyCache() {
	if t.topoValid {
		return
	}

	t.recomputeAdjacency()
	order, cyclic := t.stableToposort()
	t.hasAvailableLinkCycle = cyclic
	t.leftToRight = order
	t.rightToLeft = make([]NodeId, len(order))
	for i, id := range order {
		t.rightToLeft[len(order)-1-i] = id
	}

	t.topoValid = true
	t.dirty = false
}

// HasAvailableLinkCycle reports whether the graph currently contains a
// cycle. Executors must refuse to run while this is true.
func (t *NodeTree) HasAvailableLinkCycle() bool {
	t.EnsureTopologyCache()
	return t.hasAvailableLinkCycle
}

// LeftToRight returns the toposort order, sources first.
func (t *NodeTree) LeftToRight() []NodeId {
	t.EnsureTopologyCache()
	return t.leftToRight
}

// RightToLeft returns the reverse toposort order, sinks first.
func (t *NodeTree) RightToLeft() []NodeId {
	t.EnsureTopologyCache()
	return t.rightToLeft
}

// stableToposort runs Kahn's algorithm over physical node-level adjacency,
// breaking ties by insertion order (spec §4.4: "ties ... resolved by
// insertion order (stable)"). If not every node can be ordered, the graph
// is cyclic.
func (t *NodeTree) stableToposort() ([]NodeId, bool) {
	inDegree := make(map[NodeId]int, len(t.Nodes))
	outEdges := make(map[NodeId][]NodeId, len(t.Nodes))
	for id := range t.Nodes {
		inDegree[id] = 0
	}
	for _, l := range t.Links {
		from, to := l.From.Node.ID, l.To.Node.ID
		outEdges[from] = append(outEdges[from], to)
		inDegree[to]++
	}

	var ready []NodeId
	for id, d := range inDegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sortBySeq := func(ids []NodeId) {
		sort.Slice(ids, func(i, j int) bool {
			return t.Nodes[ids[i]].insertionSeq < t.Nodes[ids[j]].insertionSeq
		})
	}
	sortBySeq(ready)

	order := make([]NodeId, 0, len(t.Nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		var newlyReady []NodeId
		for _, succ := range outEdges[n] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newlyReady = append(newlyReady, succ)
			}
		}
		sortBySeq(newlyReady)
		ready = mergeSortedBySeq(t, ready, newlyReady)
	}

	return order, len(order) != len(t.Nodes)
}

// mergeSortedBySeq merges two insertion-order-sorted id slices, keeping the
// result sorted, so stableToposort's ready queue always pops the
// lowest-insertion-order ready node first.
func mergeSortedBySeq(t *NodeTree, a, b []NodeId) []NodeId {
	if len(b) == 0 {
		return a
	}
	out := make([]NodeId, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if t.Nodes[a[i]].insertionSeq <= t.Nodes[b[j]].insertionSeq {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// recomputeAdjacency rebuilds every socket's directlyLinkedLinks/Sockets,
// collapsing invisible conversion-node chains so a consumer sees the real
// peer on the other side of the conversion, not the conversion node itself.
func (t *NodeTree) recomputeAdjacency() {
	for _, s := range t.sockets {
		s.directlyLinkedLinks = nil
		s.directlyLinkedSockets = nil
	}
	for _, l := range t.Links {
		if l.FromLink != nil {
			// second segment of a conversion bridge; folded into the first
			// segment's resolution below.
			continue
		}
		logicalTo := l.LogicalTo()
		l.From.directlyLinkedLinks = append(l.From.directlyLinkedLinks, l)
		l.From.directlyLinkedSockets = append(l.From.directlyLinkedSockets, logicalTo)
		logicalTo.directlyLinkedLinks = append(logicalTo.directlyLinkedLinks, l)
		logicalTo.directlyLinkedSockets = append(logicalTo.directlyLinkedSockets, l.From)
	}
}
