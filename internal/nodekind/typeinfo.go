package nodekind

import (
	"fmt"

	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// Direction is the direction of a socket declaration.
type Direction int

const (
	Input Direction = iota
	Output
)

// InputDecl describes one declared input socket.
type InputDecl struct {
	Identifier           string
	UIName               string
	Type                 typed.SocketType
	Default              *typed.Any
	Min                   *typed.Any
	Max                   *typed.Any
	Optional              bool
	SocketGroupIdentifier string
}

// OutputDecl describes one declared output socket.
type OutputDecl struct {
	Identifier            string
	UIName                string
	Type                  typed.SocketType
	SocketGroupIdentifier string
}

// SocketGroupDecl describes a runtime-dynamic socket group declared by a
// kind: a named, ordered collection of sockets sharing an identifier.
type SocketGroupDecl struct {
	Identifier string
	Direction  Direction
	ElemType   typed.SocketType

	// Optional carries through to every socket AddSocket creates for this
	// group: a variadic input group (e.g. a "merge" node's fan-in) is
	// typically optional per member, since an unwired member simply
	// contributes nothing rather than aborting the node.
	Optional bool
}

// DeclarationBuilder accumulates a kind's socket declarations. A fresh one
// is passed to a kind's Declare callback each time a node of that kind is
// instantiated.
type DeclarationBuilder struct {
	Inputs       []InputDecl
	Outputs      []OutputDecl
	SocketGroups []SocketGroupDecl
}

// AddInput declares an input socket.
func (b *DeclarationBuilder) AddInput(d InputDecl) *DeclarationBuilder {
	b.Inputs = append(b.Inputs, d)
	return b
}

// AddOutput declares an output socket.
func (b *DeclarationBuilder) AddOutput(d OutputDecl) *DeclarationBuilder {
	b.Outputs = append(b.Outputs, d)
	return b
}

// AddSocketGroup declares a dynamic socket group.
func (b *DeclarationBuilder) AddSocketGroup(d SocketGroupDecl) *DeclarationBuilder {
	b.SocketGroups = append(b.SocketGroups, d)
	return b
}

// ExecuteFunc is a kind's execute callback. It returns false on failure; if
// it also calls Params.SetError, that message is used instead of the
// executor's generic "Execution failed".
type ExecuteFunc func(p *ExecParams) bool

// SynchronizationTriple names one companion node add_node must also create
// when instantiating a kind that declares a synchronization requirement
// (spec §4.3's "(kind, group, direction) triples"): CompanionKind is the
// id_name of the node to create alongside this one. Group, if non-empty,
// names a socket group this kind and CompanionKind both declare under the
// same identifier and Direction; once both nodes exist, the two groups are
// paired via SocketGroup.AddSyncGroup. A pairing that has nothing to
// synchronize beyond the nodes themselves (e.g. simulation_in/
// simulation_out's fixed name/value shape) leaves Group empty.
type SynchronizationTriple struct {
	CompanionKind string
	Group         string
	Direction     Direction
}

// TypeInfo is the immutable per-kind metadata a Node is instantiated from.
type TypeInfo struct {
	IDName  string
	UIName  string
	Color   [4]float32
	Declare func(*DeclarationBuilder)
	Execute ExecuteFunc

	AlwaysRequired bool
	AlwaysDirty    bool
	Invisible      bool

	// SynchronizationRequirement declares the companion nodes add_node must
	// create alongside this kind, and which socket groups to pair across
	// them (spec §4.3). Only one side of a pair should declare it, or
	// add_node would create a companion for the companion.
	SynchronizationRequirement []SynchronizationTriple
}

// conversionKey identifies a registered (from, to) conversion kind.
type conversionKey struct {
	from string
	to   string
}

// Registry holds all registered kinds and the conversion-kind table used by
// the graph model's link constructor to auto-insert invisible conversion
// nodes when a user wires mismatched socket types.
type Registry struct {
	kinds       map[string]*TypeInfo
	conversions map[conversionKey]string
}

// NewRegistry returns an empty kind registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds:       make(map[string]*TypeInfo),
		conversions: make(map[conversionKey]string),
	}
}

// Register adds a kind. Registering the same id_name twice panics — like a
// conflicting type registration, this is a startup-time programmer error.
func (r *Registry) Register(info *TypeInfo) {
	if _, exists := r.kinds[info.IDName]; exists {
		panic(fmt.Sprintf("nodekind: kind %q already registered", info.IDName))
	}
	r.kinds[info.IDName] = info
}

// Lookup returns a registered kind by id_name.
func (r *Registry) Lookup(idName string) (*TypeInfo, bool) {
	info, ok := r.kinds[idName]
	return info, ok
}

// RegisterConversion designates idName as the conversion kind used to
// auto-insert an invisible bridge when linking a `from`-typed output into a
// `to`-typed input.
func (r *Registry) RegisterConversion(from, to typed.SocketType, idName string) {
	r.conversions[conversionKey{from: from.Name(), to: to.Name()}] = idName
}

// LookupConversion returns the conversion kind id_name registered for
// (from, to), if any.
func (r *Registry) LookupConversion(from, to typed.SocketType) (string, bool) {
	idName, ok := r.conversions[conversionKey{from: from.Name(), to: to.Name()}]
	return idName, ok
}

// Declare runs a kind's Declare callback and returns the resulting builder.
// A kind with a nil Declare is treated as having no sockets at all.
func Declare(info *TypeInfo) *DeclarationBuilder {
	b := &DeclarationBuilder{}
	if info.Declare != nil {
		info.Declare(b)
	}
	return b
}
