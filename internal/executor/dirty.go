package executor

import (
	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// NotifyNodeDirty implements spec §4.5.3's notify_node_dirty: the hook an
// editor calls after a structural edit to one specific node.
func (e *Executor) NotifyNodeDirty(n *graphmodel.Node) {
	e.dirtyNodes[n.ID] = true
	e.nodeDirtyCache[n.ID] = true
}

// NotifySocketDirty implements notify_node_dirty's finer-grained sibling:
// mark s's node dirty, invalidate its cache flags, then walk downstream
// through the tree's current links with an explicit worklist (spec §9),
// dirtying and invalidating every node reached.
func (e *Executor) NotifySocketDirty(s *graphmodel.NodeSocket) {
	tree := s.Node.Tree
	tree.EnsureTopologyCache()

	e.markNodeDirtyAndInvalidate(s.Node)

	visited := map[graphmodel.NodeId]bool{s.Node.ID: true}
	stack := []graphmodel.NodeId{s.Node.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, l := range tree.Links {
			if l.From.Node.ID != id {
				continue
			}
			down := l.To.Node.ID
			if visited[down] {
				continue
			}
			visited[down] = true
			if n, ok := tree.FindNode(down); ok {
				e.markNodeDirtyAndInvalidate(n)
			}
			stack = append(stack, down)
		}
	}
}

// SyncNodeFromExternalStorage writes v into socket s from outside the
// executor (e.g. an editor's slider). If v differs from the current value
// it is assigned into both the persistent cache and, if live, the
// transient slot, s.Node is marked dirty and its downstream propagated,
// and (for an input socket) dataField.value is overwritten so a later
// re-entry default stays consistent with what was last synced in.
func (e *Executor) SyncNodeFromExternalStorage(s *graphmodel.NodeSocket, v typed.Any) {
	if cur, ok := e.GetSocketValue(s); ok && cur.Equals(v) {
		return
	}

	cache := e.cacheFor(s.Direction)
	entry, ok := cache[s.ID]
	if !ok {
		entry = &cacheEntry{}
		cache[s.ID] = entry
	}
	entry.value = v
	entry.isCached = false

	if sl := e.index[s.ID]; sl != nil {
		sl.value = v
		sl.isForwarded = false
	}

	if s.Direction == nodekind.Input && s.Data != nil {
		vv := v.Copy()
		s.Data.Value = &vv
	}

	e.NotifySocketDirty(s)
}

// SyncNodeToExternalStorage reads s's current value out to the caller,
// without altering dirty/cache state.
func (e *Executor) SyncNodeToExternalStorage(s *graphmodel.NodeSocket) (typed.Any, bool) {
	return e.GetSocketValue(s)
}

// GetSocketValue peeks at s's current value: the live transient slot if
// one exists for the run in progress, else the persistent cache, else
// "no value recorded yet".
func (e *Executor) GetSocketValue(s *graphmodel.NodeSocket) (typed.Any, bool) {
	if sl := e.index[s.ID]; sl != nil {
		return sl.value, true
	}
	cache := e.cacheFor(s.Direction)
	if entry, ok := cache[s.ID]; ok {
		return entry.value, true
	}
	return typed.Empty(), false
}

// MarkTreeStructureChanged implements the coarse reset an editor calls
// after adding or removing a node or link: drop the transient index,
// invalidate every persistent-cache entry's validity flag (values survive,
// per spec §9, so still-live socket identities don't lose their data), and
// clear the dirty sets. The next compile starts from scratch.
func (e *Executor) MarkTreeStructureChanged() {
	e.index = nil
	for _, entry := range e.persistentInputCache {
		entry.isCached = false
	}
	for _, entry := range e.persistentOutputCache {
		entry.isCached = false
	}
	e.dirtyNodes = make(map[graphmodel.NodeId]bool)
	e.nodeDirtyCache = make(map[graphmodel.NodeId]bool)
}
