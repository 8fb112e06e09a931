package typed

import ctyjson "github.com/zclconf/go-cty/cty/json"

// MarshalAny encodes a into its JSON wire form, given its own carried type.
// Used by durable NamedStorage backends; the in-process default never needs
// it, since it keeps Any values boxed as-is.
func MarshalAny(a Any) ([]byte, error) {
	if a.empty {
		return []byte("null"), nil
	}
	return ctyjson.Marshal(a.val, a.typ.cty)
}

// UnmarshalAny decodes data as a value of type t, previously produced by
// MarshalAny.
func UnmarshalAny(data []byte, t SocketType) (Any, error) {
	if string(data) == "null" {
		return Empty(), nil
	}
	v, err := ctyjson.Unmarshal(data, t.cty)
	if err != nil {
		return Any{}, err
	}
	return Any{typ: t, val: v}, nil
}
