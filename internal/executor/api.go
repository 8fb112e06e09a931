package executor

import (
	"context"

	"github.com/Jerry-Shen0527/rznode/internal/ctxlog"
	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
)

// PrepareTree implements spec §4.5.1 steps 1-4: recompute topology if
// stale, compile the required set, build the per-compile memory index, and
// run refresh_storage. It binds e to tree for the subsequent ExecuteTree
// call (and for MarkTreeStructureChanged/dirty bookkeeping that doesn't
// take a tree argument).
func (e *Executor) PrepareTree(ctx context.Context, tree *graphmodel.NodeTree, requiredNode *graphmodel.NodeId) {
	log := ctxlog.FromContext(ctx)
	e.tree = tree

	if tree.HasAvailableLinkCycle() {
		log.Warn("executor: prepare_tree aborted, graph has a cycle")
		e.required = nil
		e.index = make(map[graphmodel.SocketId]*slot)
		return
	}

	e.required = e.compile(tree, requiredNode)
	e.prepareMemory(tree, e.required)
	e.refreshStorage(tree, e.required)
	log.Debug("executor: prepared", "required_nodes", len(e.required))
}

// ExecuteTree implements spec §4.5.1 steps 5-8: walk the required set,
// skip/execute/forward each node, capture func_storage_in values, write
// every slot back into the persistent cache, and clear the transient dirty
// set. A graph with a detected cycle makes this a no-op, per §7.
func (e *Executor) ExecuteTree(ctx context.Context, tree *graphmodel.NodeTree) {
	log := ctxlog.FromContext(ctx)
	if tree.HasAvailableLinkCycle() {
		log.Warn("executor: execute_tree aborted, graph has a cycle")
		return
	}

	e.runRequired(tree, e.required)
	e.writebackPersistentCache()

	e.dirtyNodes = make(map[graphmodel.NodeId]bool)
	e.nodeDirtyCache = make(map[graphmodel.NodeId]bool)

	log.Debug("executor: executed", "required_nodes", len(e.required))
}

// Execute is prepare_tree + execute_tree.
func (e *Executor) Execute(ctx context.Context, tree *graphmodel.NodeTree, requiredNode *graphmodel.NodeId) {
	e.PrepareTree(ctx, tree, requiredNode)
	e.ExecuteTree(ctx, tree)
}

func (e *Executor) writebackPersistentCache() {
	for id, sl := range e.index {
		// s.Direction is not recoverable from SocketId alone; look the
		// socket up once so input and output slots land in their own
		// cache, matching the separate persistent_input_cache /
		// persistent_output_cache the spec describes.
		s, ok := e.tree.FindPin(id)
		if !ok {
			continue
		}
		cache := e.cacheFor(s.Direction)
		cache[id] = &cacheEntry{value: sl.value, isCached: sl.isCached}
	}
}
