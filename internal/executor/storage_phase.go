package executor

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
)

// storageName reads a storage or simulation node's first input slot as a
// non-empty string. A name input that nothing has forwarded into takes its
// default first, the same rule executeNode applies. It returns ok=false if
// the result isn't a non-empty string (an unwired name with no default, or
// a wrong-typed or null name, is simply not a live storage name).
func (e *Executor) storageName(n *graphmodel.Node) (string, bool) {
	if len(n.Inputs) == 0 {
		return "", false
	}
	s := n.Inputs[0]
	sl := e.index[s.ID]
	if sl == nil {
		return "", false
	}
	if !sl.isForwarded && s.Data != nil && s.Data.Value != nil {
		sl.value = s.Data.Value.Copy()
	}
	v := sl.value.Value()
	if v == cty.NilVal || v.Type() != cty.String || v.IsNull() {
		return "", false
	}
	name := v.AsString()
	return name, name != ""
}

// refreshStorage implements spec §4.6's refresh_storage: for every required
// func_storage_in, ensure a typed value exists under its live name
// (allocating a default-constructed one from the value input's type if
// needed), then drop every storage entry whose name is no longer referenced
// by any live func_storage_in. Runs after prepareMemory, before the
// toposort execution walk.
func (e *Executor) refreshStorage(tree *graphmodel.NodeTree, required []graphmodel.NodeId) {
	live := make(map[string]bool)
	for _, id := range required {
		n, ok := tree.FindNode(id)
		if !ok {
			continue
		}
		switch n.TypeInfo.IDName {
		case KindFuncStorageIn:
			name, ok := e.storageName(n)
			if !ok {
				continue
			}
			live[name] = true
			if _, exists := e.storage.Get(name); exists {
				continue
			}
			if len(n.Inputs) > 1 && n.Inputs[1].HasType() {
				e.storage.Set(name, n.Inputs[1].Type.DefaultConstruct())
			}
		case KindSimulationOut, KindSimulationIn:
			// A simulation pair's backing name must survive refresh_storage's
			// GC pass even though it has no func_storage_in counterpart to mark
			// it live: the feedback value moveSimulationStorage wrote on the
			// previous run is what this run's simulation_in is about to read.
			if name, ok := e.storageName(n); ok {
				live[name] = true
			}
		}
	}
	for _, name := range e.storage.Names() {
		if !live[name] {
			e.storage.Delete(name)
		}
	}
}

// tryStorageCapture implements the "try storage" step of spec §4.5.1: for
// every required func_storage_in, copy the current value of its wired
// (second) input into storage[name].
func (e *Executor) tryStorageCapture(tree *graphmodel.NodeTree, required []graphmodel.NodeId) {
	for _, id := range required {
		n, ok := tree.FindNode(id)
		if !ok || n.TypeInfo.IDName != KindFuncStorageIn {
			continue
		}
		name, ok := e.storageName(n)
		if !ok || len(n.Inputs) < 2 {
			continue
		}
		sl := e.index[n.Inputs[1].ID]
		if sl == nil {
			continue
		}
		e.storage.Set(name, sl.value.Copy())
	}
}

// tryFillStorageToNode implements func_storage_out's §4.6 behavior: if
// storage[name] exists and its type matches the output socket's declared
// type, publish it into the output slot and report "filled" (bypassing the
// kind-callback entirely). Otherwise it records the appropriate
// execution_failed message and reports "not filled". runRequired does not
// run the kind-callback for these nodes in either case.
func (e *Executor) tryFillStorageToNode(n *graphmodel.Node) bool {
	name, ok := e.storageName(n)
	if !ok || len(n.Outputs) == 0 {
		return false
	}
	out := n.Outputs[0]
	sl := e.index[out.ID]
	if sl == nil {
		return false
	}
	v, ok := e.storage.Get(name)
	if !ok {
		n.ExecutionFailed = "No cache can be found with name " + name + " (yet)."
		return false
	}
	if out.HasType() && !v.IsEmpty() && !out.Type.Equal(v.Type()) {
		n.ExecutionFailed = "Type Mismatch, filling default value."
		sl.value = out.Type.DefaultConstruct()
		return false
	}
	sl.value = v.Copy()
	n.ExecutionFailed = ""
	return true
}
