package typed

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// SocketType is an opaque handle to a runtime type registered once per
// process. Two SocketTypes compare equal with Equal iff they were registered
// under the same name.
type SocketType struct {
	name string
	cty  cty.Type
}

// Name returns the registered human-readable name of the type.
func (t SocketType) Name() string { return t.name }

// IsZero reports whether t is the zero SocketType (never registered).
func (t SocketType) IsZero() bool { return t.name == "" }

// Equal reports whether two SocketTypes refer to the same registered type.
func (t SocketType) Equal(other SocketType) bool {
	return t.name == other.name
}

// DefaultConstruct returns the zero value of the type: for primitives this
// is the language zero (0, "", false); for object/collection types it is an
// empty instance of that shape.
func (t SocketType) DefaultConstruct() Any {
	return Any{val: defaultValueFor(t.cty), typ: t}
}

// Registry is a process-lifetime table mapping type names to SocketTypes.
// It must be populated before any NodeTree is executed; it is read-only
// after startup and safe for concurrent readers once registration is done.
type Registry struct {
	byName map[string]SocketType
}

// NewRegistry returns an empty type registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]SocketType)}
}

// Register associates a name with a cty.Type, returning the resulting
// SocketType handle. Registering the same name twice with a different
// underlying type is a programmer error and panics, mirroring the spec's
// "types are registered once" contract.
func (r *Registry) Register(name string, ctype cty.Type) SocketType {
	if existing, ok := r.byName[name]; ok {
		if !existing.cty.Equals(ctype) {
			panic(fmt.Sprintf("typed: type %q already registered with a different underlying type", name))
		}
		return existing
	}
	st := SocketType{name: name, cty: ctype}
	r.byName[name] = st
	return st
}

// ResolveByName looks up a previously registered type by name.
func (r *Registry) ResolveByName(name string) (SocketType, bool) {
	st, ok := r.byName[name]
	return st, ok
}

// NameOf returns the registered name for a SocketType.
func (r *Registry) NameOf(t SocketType) string {
	return t.name
}
