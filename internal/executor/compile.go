package executor

import "github.com/Jerry-Shen0527/rznode/internal/graphmodel"

// compile implements spec §4.5.2's required-set computation: clear
// Required on every node, seed it from always_required kinds or an explicit
// requiredNode, walk transitive upstream, then fold in any dirty node that
// feeds into what's already required (also walking its upstream), to a
// fixpoint. The returned slice preserves toposort order, which a stable
// partition-by-required over an already-toposorted list gives for free.
func (e *Executor) compile(tree *graphmodel.NodeTree, requiredNode *graphmodel.NodeId) []graphmodel.NodeId {
	tree.EnsureTopologyCache()
	order := tree.LeftToRight()

	for _, id := range order {
		if n, ok := tree.FindNode(id); ok {
			n.Required = false
		}
	}

	required := make(map[graphmodel.NodeId]bool)
	mark := func(id graphmodel.NodeId) {
		if required[id] {
			return
		}
		required[id] = true
		markUpstreamRequired(tree, id, required)
	}

	if requiredNode == nil {
		for _, id := range order {
			n, _ := tree.FindNode(id)
			if n.TypeInfo.AlwaysRequired {
				mark(id)
			}
		}
	} else {
		mark(*requiredNode)
	}

	for changed := true; changed; {
		changed = false
		for id := range e.dirtyNodes {
			if required[id] {
				continue
			}
			if downstreamReachesRequired(tree, id, required) {
				mark(id)
				changed = true
			}
		}
	}

	result := make([]graphmodel.NodeId, 0, len(required))
	for _, id := range order {
		if required[id] {
			n, _ := tree.FindNode(id)
			n.Required = true
			result = append(result, id)
		}
	}
	return result
}

// markUpstreamRequired walks every node reachable by following links
// backward from start (an explicit worklist, per spec §9's "downstream
// walks -> explicit worklists" note, applied symmetrically upstream) and
// adds each to required.
func markUpstreamRequired(tree *graphmodel.NodeTree, start graphmodel.NodeId, required map[graphmodel.NodeId]bool) {
	visited := map[graphmodel.NodeId]bool{start: true}
	stack := []graphmodel.NodeId{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, l := range tree.Links {
			if l.To.Node.ID != id {
				continue
			}
			up := l.From.Node.ID
			if visited[up] {
				continue
			}
			visited[up] = true
			required[up] = true
			stack = append(stack, up)
		}
	}
}

// downstreamReachesRequired reports whether a node reachable downstream of
// start (not counting start itself) is already required.
func downstreamReachesRequired(tree *graphmodel.NodeTree, start graphmodel.NodeId, required map[graphmodel.NodeId]bool) bool {
	visited := map[graphmodel.NodeId]bool{start: true}
	stack := []graphmodel.NodeId{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, l := range tree.Links {
			if l.From.Node.ID != id {
				continue
			}
			down := l.To.Node.ID
			if required[down] {
				return true
			}
			if visited[down] {
				continue
			}
			visited[down] = true
			stack = append(stack, down)
		}
	}
	return false
}
