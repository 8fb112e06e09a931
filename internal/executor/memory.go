package executor

import (
	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// prepareMemory builds the per-compile socket -> slot index for every
// socket belonging to a required node, seeding each from the persistent
// cache when a record exists for that socket identity, else from the
// socket's default-constructed value. It also prunes persistent-cache
// entries whose socket no longer exists in the tree (spec §9: "cached
// entries for deleted sockets are dropped on compile").
func (e *Executor) prepareMemory(tree *graphmodel.NodeTree, required []graphmodel.NodeId) {
	e.pruneCache(tree, e.persistentInputCache)
	e.pruneCache(tree, e.persistentOutputCache)

	e.index = make(map[graphmodel.SocketId]*slot)
	for _, id := range required {
		n, ok := tree.FindNode(id)
		if !ok {
			continue
		}
		for _, s := range n.Inputs {
			e.index[s.ID] = e.seed(s)
		}
		for _, s := range n.Outputs {
			e.index[s.ID] = e.seed(s)
		}
	}
}

func (e *Executor) seed(s *graphmodel.NodeSocket) *slot {
	cache := e.cacheFor(s.Direction)
	if entry, ok := cache[s.ID]; ok {
		return &slot{value: entry.value, isCached: entry.isCached}
	}
	def := typed.Empty()
	if s.HasType() {
		def = s.Type.DefaultConstruct()
	}
	return &slot{value: def, isCached: false}
}

func (e *Executor) pruneCache(tree *graphmodel.NodeTree, cache map[graphmodel.SocketId]*cacheEntry) {
	for id := range cache {
		if _, ok := tree.FindPin(id); !ok {
			delete(cache, id)
		}
	}
}
