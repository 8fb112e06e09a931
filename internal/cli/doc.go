// Package cli implements the rznode command-line front-end (spec
// component C8): a thin cobra-based driver over the manifest loader, the
// graph model's JSON deserialization, and the executor/host pair. It owns
// no engine logic of its own.
package cli
