// Package typed implements the value & type registry (the spec's C1): a
// process-wide table of registered runtime types, and a boxed "typed-any"
// value that carries one of them.
//
// Runtime types are represented with cty.Type and boxed values with
// cty.Value, reusing zclconf/go-cty's own default-construct/copy/equals/cast
// machinery rather than hand-rolling a second one. A SocketType is just a
// named, registered cty.Type; an Any is just a cty.Value plus the
// empty/typed distinction the spec requires for forwarding.
package typed
