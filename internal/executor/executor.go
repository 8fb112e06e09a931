package executor

import (
	"context"

	"github.com/Jerry-Shen0527/rznode/internal/ctxlog"
	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/storage"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// Well-known node-kind id_names the executor recognizes by name and gives
// special handling, per spec §4.5.5 and §4.6. Everything else is opaque to
// the executor.
const (
	KindFuncStorageIn  = "func_storage_in"
	KindFuncStorageOut = "func_storage_out"
	KindSimulationOut  = "simulation_out"
	KindSimulationIn   = "simulation_in"
)

// Executor is an eager, single-threaded dataflow executor bound to exactly
// one NodeTree at a time. Per spec §5, distinct NodeTrees must be driven by
// distinct Executors; an Executor keeps no lock and gives no thread-safety
// guarantee of its own.
type Executor struct {
	tree *graphmodel.NodeTree

	persistentInputCache  map[graphmodel.SocketId]*cacheEntry
	persistentOutputCache map[graphmodel.SocketId]*cacheEntry

	dirtyNodes     map[graphmodel.NodeId]bool
	nodeDirtyCache map[graphmodel.NodeId]bool

	// index is the per-compile transient socket -> slot map. Rebuilt by
	// prepareMemory on every PrepareTree call.
	index map[graphmodel.SocketId]*slot

	// required is the toposort-ordered required-node list computed by the
	// most recent PrepareTree call.
	required []graphmodel.NodeId

	storage storage.NamedStorage

	globalPayload *typed.Any
}

// New returns an Executor with an in-memory NamedStorage. Use WithStorage to
// install a durable backend (e.g. redisstorage.Storage) instead.
func New() *Executor {
	return &Executor{
		persistentInputCache:  make(map[graphmodel.SocketId]*cacheEntry),
		persistentOutputCache: make(map[graphmodel.SocketId]*cacheEntry),
		dirtyNodes:            make(map[graphmodel.NodeId]bool),
		nodeDirtyCache:        make(map[graphmodel.NodeId]bool),
		storage:               storage.NewMemory(),
	}
}

// WithStorage replaces e's NamedStorage backend. Call it before the first
// PrepareTree/ExecuteTree.
func (e *Executor) WithStorage(s storage.NamedStorage) *Executor {
	e.storage = s
	return e
}

// SetGlobalPayload installs the process-global payload kind-callbacks read
// via ExecParams.GlobalPayload for every execution until Finalize clears it
// (spec §4.5.6).
func (e *Executor) SetGlobalPayload(v typed.Any) {
	e.globalPayload = &v
}

// Finalize clears the installed global payload and the tree binding.
func (e *Executor) Finalize(ctx context.Context) {
	ctxlog.FromContext(ctx).Debug("executor: finalize")
	e.globalPayload = nil
	e.tree = nil
}

func (e *Executor) cacheFor(dir nodekind.Direction) map[graphmodel.SocketId]*cacheEntry {
	if dir == nodekind.Input {
		return e.persistentInputCache
	}
	return e.persistentOutputCache
}
