package executor

import (
	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// runRequired walks the required-node list in toposort order, implementing
// spec §4.5.4's skip/execute/forward logic plus the special-cased node
// kinds from §4.5.5 and §4.6.
func (e *Executor) runRequired(tree *graphmodel.NodeTree, required []graphmodel.NodeId) {
	for _, id := range required {
		n, ok := tree.FindNode(id)
		if !ok {
			continue
		}

		switch n.TypeInfo.IDName {
		case KindFuncStorageOut, KindSimulationIn:
			e.tryFillStorageToNode(n)
		default:
			e.skipOrExecute(n)
		}

		e.forward(tree, n)
		e.markPostRun(n)

		if n.TypeInfo.IDName == KindSimulationOut {
			e.moveSimulationStorage(n)
		}
	}

	e.tryStorageCapture(tree, required)
}

// skipOrExecute implements §4.5.4 step 1: execute if the node is
// always_dirty or currently dirty, or if any of its slots aren't yet
// cached-valid; otherwise leave its slots untouched and let forwarding use
// whatever they already hold.
func (e *Executor) skipOrExecute(n *graphmodel.Node) {
	if n.TypeInfo.AlwaysDirty || e.nodeDirtyCache[n.ID] {
		e.executeNode(n)
		return
	}
	if e.allSlotsCached(n) {
		return
	}
	e.executeNode(n)
}

func (e *Executor) allSlotsCached(n *graphmodel.Node) bool {
	for _, s := range n.Inputs {
		sl := e.index[s.ID]
		if sl == nil || !sl.isCached {
			return false
		}
	}
	for _, s := range n.Outputs {
		sl := e.index[s.ID]
		if sl == nil || !sl.isCached {
			return false
		}
	}
	return true
}

// executeNode implements §4.5.4 steps 2-3: resolve each input slot per the
// forwarded/default/optional/missing rules, and invoke the kind callback
// unless a required input is missing.
func (e *Executor) executeNode(n *graphmodel.Node) {
	n.MissingInput = false

	inputs := make(map[string]*typed.Any, len(n.Inputs))
	for _, s := range n.Inputs {
		sl := e.index[s.ID]
		if sl == nil {
			continue
		}
		switch {
		case sl.isForwarded:
			inputs[s.Identifier] = &sl.value
		case s.Data != nil && s.Data.Value != nil:
			sl.value = s.Data.Value.Copy()
			inputs[s.Identifier] = &sl.value
		case s.Optional:
			// no slot handed to the callback; ExecParams.Input reports !ok.
		default:
			n.MissingInput = true
			return
		}
	}

	outputs := make(map[string]*typed.Any, len(n.Outputs))
	for _, s := range n.Outputs {
		if sl := e.index[s.ID]; sl != nil {
			outputs[s.Identifier] = &sl.value
		}
	}

	params := nodekind.NewExecParams(inputs, outputs, e.globalPayload)
	ok := true
	if n.TypeInfo.Execute != nil {
		ok = n.TypeInfo.Execute(params)
	}
	if !ok {
		msg := params.Error()
		if msg == "" {
			msg = "Execution failed"
		}
		n.ExecutionFailed = msg
		return
	}
	n.ExecutionFailed = ""
}

// forward implements §4.5.4 step 4: copy each output slot's value into
// every linked downstream input slot that's part of this run, with a
// type-match check, and step 5's keep_alive marking for func_storage_in
// consumers.
func (e *Executor) forward(tree *graphmodel.NodeTree, n *graphmodel.Node) {
	for _, s := range n.Outputs {
		outSlot := e.index[s.ID]
		if outSlot == nil {
			continue
		}
		for _, l := range tree.Links {
			if l.From != s {
				continue
			}
			to := l.To
			inSlot := e.index[to.ID]
			if inSlot == nil {
				continue
			}
			if to.HasType() && !outSlot.value.IsEmpty() && !to.Type.Equal(outSlot.value.Type()) {
				to.Node.ExecutionFailed = "Type mismatch input"
				continue
			}
			inSlot.value = outSlot.value.Copy()
			inSlot.isForwarded = true
			if outSlot.isCached {
				inSlot.isCached = true
			}
			if to.Node.TypeInfo.IDName == KindFuncStorageIn {
				inSlot.keepAlive = true
			}
		}
	}
}

// markPostRun implements §4.5.4 steps 6-7: an always_dirty node forces every
// direct downstream node dirty so it re-executes this same pass; every node
// that did not stop on a missing input then has its slots marked
// cached-valid; and every node, unless always_dirty, has its dirty flag
// cleared.
func (e *Executor) markPostRun(n *graphmodel.Node) {
	if n.TypeInfo.AlwaysDirty {
		for _, s := range n.Outputs {
			for _, peer := range s.DirectlyLinkedSockets() {
				e.markNodeDirtyAndInvalidate(peer.Node)
			}
		}
	}

	if !n.MissingInput {
		for _, s := range n.Inputs {
			if sl := e.index[s.ID]; sl != nil {
				sl.isCached = true
			}
		}
		for _, s := range n.Outputs {
			if sl := e.index[s.ID]; sl != nil {
				sl.isCached = true
			}
		}
	}

	if !n.TypeInfo.AlwaysDirty {
		delete(e.dirtyNodes, n.ID)
		delete(e.nodeDirtyCache, n.ID)
	}
}

// moveSimulationStorage implements §4.5.5: after a simulation_out node
// runs, its captured value moves into storage under the name its paired
// simulation_in reads, a one-tick feedback loop with no real cycle in the
// DAG. Both node kinds are expected to follow the func_storage_in/out
// input/output shape (name, value).
func (e *Executor) moveSimulationStorage(n *graphmodel.Node) {
	if n.PairedNode == nil || len(n.Inputs) < 2 {
		return
	}
	name, ok := e.storageName(n.PairedNode)
	if !ok {
		return
	}
	sl := e.index[n.Inputs[1].ID]
	if sl == nil {
		return
	}
	e.storage.Set(name, sl.value.Copy())
}

// markNodeDirtyAndInvalidate is notifyNodeDirty plus cache invalidation,
// shared by markPostRun's always_dirty propagation and NotifySocketDirty's
// downstream walk.
func (e *Executor) markNodeDirtyAndInvalidate(n *graphmodel.Node) {
	e.dirtyNodes[n.ID] = true
	e.nodeDirtyCache[n.ID] = true
	e.invalidateCacheForNode(n)
}

func (e *Executor) invalidateCacheForNode(n *graphmodel.Node) {
	for _, s := range n.Inputs {
		if sl := e.index[s.ID]; sl != nil {
			sl.isCached = false
		}
		if entry, ok := e.persistentInputCache[s.ID]; ok {
			entry.isCached = false
		}
	}
	for _, s := range n.Outputs {
		if sl := e.index[s.ID]; sl != nil {
			sl.isCached = false
		}
		if entry, ok := e.persistentOutputCache[s.ID]; ok {
			entry.isCached = false
		}
	}
}
