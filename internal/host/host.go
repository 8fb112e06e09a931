package host

import (
	"context"

	"github.com/Jerry-Shen0527/rznode/internal/ctxlog"
	"github.com/Jerry-Shen0527/rznode/internal/executor"
	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// Host is the lifecycle wrapper described in spec §4.7. A zero Host is not
// usable; construct one with New and call Init before the first Execute.
type Host struct {
	tree *graphmodel.NodeTree
	exec *executor.Executor

	// AllowUIExecution gates Execute(isUI=true) calls. It starts true; a
	// front-end sets it false while a user is mid-drag on a control, and
	// back to true on release, to avoid re-running the graph on every
	// intermediate slider tick.
	AllowUIExecution bool
}

// New returns a Host with no bound tree or executor.
func New() *Host {
	return &Host{AllowUIExecution: true}
}

// Init binds h to tree. A nil tree just clears the current binding.
func (h *Host) Init(tree *graphmodel.NodeTree) {
	h.tree = tree
}

// SetExecutor installs the Executor h drives Execute/Finalize calls through.
func (h *Host) SetExecutor(exec *executor.Executor) {
	h.exec = exec
}

// SetGlobalParams installs the process-global payload on h's executor for
// every execution until Finalize clears it (spec §4.5.6).
func (h *Host) SetGlobalParams(v typed.Any) {
	h.exec.SetGlobalPayload(v)
}

// Execute runs h's bound tree through its executor. When isUI is true and
// AllowUIExecution is false, the call is a no-op, per spec §4.7.
func (h *Host) Execute(ctx context.Context, isUI bool, required *graphmodel.NodeId) {
	if isUI && !h.AllowUIExecution {
		ctxlog.FromContext(ctx).Debug("host: ui execution suppressed")
		return
	}
	if h.tree == nil || h.exec == nil {
		return
	}
	h.exec.Execute(ctx, h.tree, required)
}

// Finalize clears the executor's global payload and tree binding.
func (h *Host) Finalize(ctx context.Context) {
	if h.exec != nil {
		h.exec.Finalize(ctx)
	}
}

// Tree returns the currently bound NodeTree, or nil.
func (h *Host) Tree() *graphmodel.NodeTree { return h.tree }
