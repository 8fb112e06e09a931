package graphmodel

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// testFixture bundles the registries a graphmodel test builds a NodeTree
// against: a number and a string type, and a handful of simple kinds
// (const, add, sink, a number->string conversion) covering the shapes the
// graph-structure tests need without pulling in the executor.
type testFixture struct {
	types  *typed.Registry
	kinds  *nodekind.Registry
	number typed.SocketType
	str    typed.SocketType
}

func newFixture() *testFixture {
	types := typed.NewRegistry()
	kinds := nodekind.NewRegistry()
	number := types.Register("number", cty.Number)
	str := types.Register("string", cty.String)

	kinds.Register(&nodekind.TypeInfo{
		IDName: "const",
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddOutput(nodekind.OutputDecl{Identifier: "value", Type: number})
		},
	})
	kinds.Register(&nodekind.TypeInfo{
		IDName: "add",
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "a", Type: number})
			b.AddInput(nodekind.InputDecl{Identifier: "b", Type: number})
			b.AddOutput(nodekind.OutputDecl{Identifier: "sum", Type: number})
		},
	})
	kinds.Register(&nodekind.TypeInfo{
		IDName: "sink",
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "value", Type: number})
		},
	})
	kinds.Register(&nodekind.TypeInfo{
		IDName: "num_to_str",
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "in", Type: number})
			b.AddOutput(nodekind.OutputDecl{Identifier: "out", Type: str})
		},
	})
	kinds.Register(&nodekind.TypeInfo{
		IDName: "str_sink",
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddInput(nodekind.InputDecl{Identifier: "text", Type: str})
		},
	})
	kinds.RegisterConversion(number, str, "num_to_str")

	// paired_a/paired_b exercise add_node's synchronization requirement
	// (spec §4.3): paired_a declares paired_b as its companion and pairs
	// their same-named "items" input groups, so instantiating paired_a
	// alone produces both nodes with synchronized groups.
	kinds.Register(&nodekind.TypeInfo{
		IDName: "paired_a",
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddSocketGroup(nodekind.SocketGroupDecl{Identifier: "items", Direction: nodekind.Input, ElemType: number})
		},
		SynchronizationRequirement: []nodekind.SynchronizationTriple{
			{CompanionKind: "paired_b", Group: "items", Direction: nodekind.Input},
		},
	})
	kinds.Register(&nodekind.TypeInfo{
		IDName: "paired_b",
		Declare: func(b *nodekind.DeclarationBuilder) {
			b.AddSocketGroup(nodekind.SocketGroupDecl{Identifier: "items", Direction: nodekind.Input, ElemType: number})
		},
	})

	return &testFixture{types: types, kinds: kinds, number: number, str: str}
}

func (f *testFixture) newTree() *NodeTree {
	return New(f.kinds, f.types)
}
