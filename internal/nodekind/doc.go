// Package nodekind implements the node type descriptor (the spec's C2): the
// immutable per-kind metadata a Node is instantiated from — its input/output
// declarations, socket-group declarations, the execute callback, and its
// flags (always_required, always_dirty, invisible).
//
// A kind's sockets are declared by its Declare callback, which is called
// with a fresh DeclarationBuilder for every node instantiated from it;
// the callback is written either directly in Go (as the original does) or by replaying an HCL
// manifest parsed by internal/manifest (see SPEC_FULL.md §10/§11). Both
// paths produce the same TypeInfo.
package nodekind
