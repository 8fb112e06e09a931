package typed

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Any is the boxed, type-erased "typed-any" value carried on sockets and
// cached by the executor. Empty() returns the "polymorphic empty" — it has no
// registered type at all, distinct from a typed Any holding that type's
// default value (see the spec's §4.1 note on why this distinction matters
// for forwarding: a polymorphic empty slot has never been written, while a
// typed-default slot has a type it just hasn't been assigned a value yet).
type Any struct {
	typ   SocketType
	val   cty.Value
	empty bool // set only by Empty/Reset; the zero Any{} is not IsEmpty
}

// Empty returns the polymorphic-empty Any.
func Empty() Any {
	return Any{empty: true}
}

// New boxes a cty.Value under the given SocketType.
func New(t SocketType, v cty.Value) Any {
	return Any{typ: t, val: v}
}

// IsEmpty reports whether this Any is the polymorphic-empty value.
func (a Any) IsEmpty() bool { return a.empty }

// Type returns the SocketType of a non-empty Any. Calling it on an empty
// Any returns the zero SocketType.
func (a Any) Type() SocketType { return a.typ }

// Value exposes the underlying cty.Value for code that needs to inspect it
// directly (conversion, equality, serialization).
func (a Any) Value() cty.Value { return a.val }

// Copy returns an independent copy of a. cty.Value is an immutable,
// structurally-shared value, so copying is just returning a by value —
// there is no owned-bytes buffer to duplicate, unlike the original's
// reflection-based box.
func (a Any) Copy() Any { return a }

// Reset returns a to the polymorphic-empty state, dropping any held value.
func (a *Any) Reset() { *a = Empty() }

// Equals reports whether two Anys hold equal values of the same type. Two
// empty Anys are equal; an empty Any never equals a typed one.
func (a Any) Equals(b Any) bool {
	if a.empty != b.empty {
		return false
	}
	if a.empty {
		return true
	}
	if !a.typ.Equal(b.typ) {
		return false
	}
	return a.val.RawEquals(b.val)
}

// Cast reinterprets a's underlying value as type t via cty's conversion
// rules. Per the spec, a cast to an incompatible type is a programmer
// error: the engine never catches it here, it surfaces the conversion
// error to the caller who is expected to have checked Type() first.
func (a Any) Cast(t SocketType) (Any, error) {
	if a.empty {
		return Any{}, fmt.Errorf("typed: cannot cast a polymorphic-empty value to %q", t.Name())
	}
	converted, err := convert.Convert(a.val, t.cty)
	if err != nil {
		return Any{}, fmt.Errorf("typed: cannot cast %q to %q: %w", a.typ.Name(), t.Name(), err)
	}
	return Any{typ: t, val: converted}, nil
}

// defaultValueFor returns a sensible zero value for a cty.Type, used by
// SocketType.DefaultConstruct.
func defaultValueFor(t cty.Type) cty.Value {
	switch {
	case t == cty.String:
		return cty.StringVal("")
	case t == cty.Number:
		return cty.Zero
	case t == cty.Bool:
		return cty.False
	case t.IsListType():
		return cty.ListValEmpty(t.ElementType())
	case t.IsSetType():
		return cty.SetValEmpty(t.ElementType())
	case t.IsMapType():
		return cty.MapValEmpty(t.ElementType())
	case t.IsObjectType():
		vals := make(map[string]cty.Value)
		for name, at := range t.AttributeTypes() {
			vals[name] = defaultValueFor(at)
		}
		return cty.ObjectVal(vals)
	default:
		return cty.NullVal(t)
	}
}
