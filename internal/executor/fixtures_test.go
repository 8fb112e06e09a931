package executor

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/zclconf/go-cty/cty"

	"github.com/Jerry-Shen0527/rznode/internal/ctxlog"
	"github.com/Jerry-Shen0527/rznode/internal/graphmodel"
	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// execFixture bundles the registries an executor test builds a NodeTree
// against. Node kinds are registered ad hoc per test via its helper methods
// so each test gets its own invocation counters.
type execFixture struct {
	types  *typed.Registry
	kinds  *nodekind.Registry
	number typed.SocketType
	str    typed.SocketType
}

func newExecFixture() *execFixture {
	types := typed.NewRegistry()
	kinds := nodekind.NewRegistry()
	return &execFixture{
		types:  types,
		kinds:  kinds,
		number: types.Register("number", cty.Number),
		str:    types.Register("string", cty.String),
	}
}

func (f *execFixture) newTree() *graphmodel.NodeTree {
	return graphmodel.New(f.kinds, f.types)
}

// registerPassthrough registers a one-input, one-output kind that copies
// "in" to "out" and counts how many times its callback actually runs.
func (f *execFixture) registerPassthrough(idName string) *int {
	count := new(int)
	f.kinds.Register(&nodekind.TypeInfo{
		IDName: idName,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "in", Type: f.number})
			b.AddOutput(nodekind.OutputDecl{Identifier: "out", Type: f.number})
		},
		Execute: func(p *nodekind.ExecParams) bool {
			*count++
			v, _ := p.Input("in")
			p.SetOutput("out", v)
			return true
		},
	})
	return count
}

// registerSource registers a one-output kind whose single input "value" is
// left unwired, so its output comes entirely from that input's
// default/override, for use as a graph root.
func (f *execFixture) registerSource(idName string, initial float64) (*int, func(*graphmodel.Node, float64)) {
	count := new(int)
	f.kinds.Register(&nodekind.TypeInfo{
		IDName: idName,
		Declare: func(b *nodekind.DeclarationBuilder) {
			d := typed.New(f.number, cty.NumberFloatVal(initial))
			b.AddInput(nodekind.InputDecl{Identifier: "value", Type: f.number, Default: &d})
			b.AddOutput(nodekind.OutputDecl{Identifier: "out", Type: f.number})
		},
		Execute: func(p *nodekind.ExecParams) bool {
			*count++
			v, _ := p.Input("value")
			p.SetOutput("out", v)
			return true
		},
	})
	set := func(n *graphmodel.Node, v float64) {
		val := typed.New(f.number, cty.NumberFloatVal(v))
		n.Inputs[0].Data.Value = &val
	}
	return count, set
}

// registerAdd registers a two-input "a + b = sum" kind.
func (f *execFixture) registerAdd(idName string) *int {
	count := new(int)
	f.kinds.Register(&nodekind.TypeInfo{
		IDName: idName,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "a", Type: f.number})
			b.AddInput(nodekind.InputDecl{Identifier: "b", Type: f.number})
			b.AddOutput(nodekind.OutputDecl{Identifier: "sum", Type: f.number})
		},
		Execute: func(p *nodekind.ExecParams) bool {
			*count++
			a, _ := p.Input("a")
			b, _ := p.Input("b")
			af, _ := a.Value().AsBigFloat().Float64()
			bf, _ := b.Value().AsBigFloat().Float64()
			p.SetOutput("sum", typed.New(f.number, cty.NumberFloatVal(af+bf)))
			return true
		},
	})
	return count
}

// registerSink registers a one-input, no-output terminal kind, always
// required so a test graph has a natural root to compile against.
func (f *execFixture) registerSink(idName string) *int {
	count := new(int)
	f.kinds.Register(&nodekind.TypeInfo{
		IDName:         idName,
		AlwaysRequired: true,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "value", Type: f.number})
		},
		Execute: func(p *nodekind.ExecParams) bool {
			*count++
			return true
		},
	})
	return count
}

// registerNumToStr registers a number->string conversion kind and the
// conversion itself, for tests exercising AddLink's auto-insertion path.
func (f *execFixture) registerNumToStr(idName string) *int {
	count := new(int)
	f.kinds.Register(&nodekind.TypeInfo{
		IDName: idName,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "in", Type: f.number})
			b.AddOutput(nodekind.OutputDecl{Identifier: "out", Type: f.str})
		},
		Execute: func(p *nodekind.ExecParams) bool {
			*count++
			v, _ := p.Input("in")
			n, _ := v.Value().AsBigFloat().Int64()
			p.SetOutput("out", typed.New(f.str, cty.StringVal(strconv.FormatInt(n, 10))))
			return true
		},
	})
	f.kinds.RegisterConversion(f.number, f.str, idName)
	return count
}

// registerStrSink registers an always-required, string-input terminal kind.
func (f *execFixture) registerStrSink(idName string) *int {
	count := new(int)
	f.kinds.Register(&nodekind.TypeInfo{
		IDName:         idName,
		AlwaysRequired: true,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "value", Type: f.str})
		},
		Execute: func(p *nodekind.ExecParams) bool {
			*count++
			return true
		},
	})
	return count
}

// registerClock registers an always_dirty, zero-input source, to exercise
// always_dirty's forced-downstream-dirty propagation.
func (f *execFixture) registerClock(idName string, tick *float64) *int {
	count := new(int)
	f.kinds.Register(&nodekind.TypeInfo{
		IDName:      idName,
		AlwaysDirty: true,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddOutput(nodekind.OutputDecl{Identifier: "out", Type: f.number})
		},
		Execute: func(p *nodekind.ExecParams) bool {
			*count++
			p.SetOutput("out", typed.New(f.number, cty.NumberFloatVal(*tick)))
			return true
		},
	})
	return count
}

// registerStorageKinds registers the four well-known kinds the executor
// dispatches specially, under their exact required id_names.
func (f *execFixture) registerStorageKinds() {
	f.kinds.Register(&nodekind.TypeInfo{
		IDName:         KindFuncStorageIn,
		AlwaysRequired: true,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "name", Type: f.str})
			b.AddInput(nodekind.InputDecl{Identifier: "value", Type: f.number})
		},
	})
	f.kinds.Register(&nodekind.TypeInfo{
		IDName: KindFuncStorageOut,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "name", Type: f.str})
			b.AddOutput(nodekind.OutputDecl{Identifier: "value", Type: f.number})
		},
	})
	f.kinds.Register(&nodekind.TypeInfo{
		IDName:         KindSimulationOut,
		AlwaysRequired: true,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "name", Type: f.str})
			b.AddInput(nodekind.InputDecl{Identifier: "value", Type: f.number})
		},
	})
	f.kinds.Register(&nodekind.TypeInfo{
		IDName:         KindSimulationIn,
		AlwaysRequired: true,
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "name", Type: f.str})
			b.AddOutput(nodekind.OutputDecl{Identifier: "value", Type: f.number})
		},
		// simulation_in is the side that declares the pair's synchronization
		// requirement, so add_node(simulation_in) always also creates its
		// simulation_out companion and links PairedNode both ways; since
		// add_node assigns insertion sequence numbers before recursing into
		// the companion, simulation_in's is always lower, which is what
		// keeps it ordered before simulation_out in a toposort tie-break.
		SynchronizationRequirement: []nodekind.SynchronizationTriple{
			{CompanionKind: KindSimulationOut},
		},
	})
}

// setName overrides a func_storage_in/out or simulation node's "name" input
// default, the literal-name style real manifests use.
func (f *execFixture) setName(n *graphmodel.Node, name string) {
	v := typed.New(f.str, cty.StringVal(name))
	n.Inputs[0].Data.Value = &v
}

func asFloat(a typed.Any) float64 {
	f, _ := a.Value().AsBigFloat().Float64()
	return f
}
