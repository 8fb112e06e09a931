// Package manifest loads node-kind declarations (spec component C9) from
// HCL files: each `kind` block becomes a nodekind.TypeInfo with its inputs,
// outputs, and socket groups declared from `input`/`output`/`socket_group`
// blocks, and each `conversion` block registers an auto-insertion rule on
// the kind registry. Loaded kinds carry no Execute callback; the embedding
// process wires behavior onto a loaded kind by id_name after Load returns.
package manifest
