package nodekind

import "github.com/Jerry-Shen0527/rznode/internal/typed"

// ExecParams is the argument passed to a kind's execute callback. The
// executor constructs one per node execution, wiring each field to the
// slot it resolved per the input-resolution rules in spec §4.5.4.
type ExecParams struct {
	inputs  map[string]*typed.Any
	outputs map[string]*typed.Any
	global  *typed.Any
	err     string
}

// NewExecParams constructs an ExecParams over the given input/output slot
// maps. Slots absent from inputs correspond to optional, unwired sockets;
// the callback should treat a missing key as "no value".
func NewExecParams(inputs, outputs map[string]*typed.Any, global *typed.Any) *ExecParams {
	return &ExecParams{inputs: inputs, outputs: outputs, global: global}
}

// Input returns the current value of the named input socket, and whether a
// slot was provided for it at all (false for an optional input that was
// left unwired with no default).
func (p *ExecParams) Input(identifier string) (typed.Any, bool) {
	slot, ok := p.inputs[identifier]
	if !ok {
		return typed.Any{}, false
	}
	return *slot, true
}

// SetOutput writes the named output socket's slot.
func (p *ExecParams) SetOutput(identifier string, v typed.Any) {
	if slot, ok := p.outputs[identifier]; ok {
		*slot = v
	}
}

// GlobalPayload returns the process-global payload installed by the host,
// or the polymorphic-empty Any if none was installed.
func (p *ExecParams) GlobalPayload() typed.Any {
	if p.global == nil {
		return typed.Empty()
	}
	return *p.global
}

// SetError records a specific failure message. The executor uses it instead
// of the generic "Execution failed" when the callback also returns false.
func (p *ExecParams) SetError(msg string) { p.err = msg }

// Error returns the message recorded by SetError, if any.
func (p *ExecParams) Error() string { return p.err }
