// Package executor implements the eager executor (spec component C5): the
// compile/prepare-memory/execute pipeline that decides which nodes run on a
// given pass, forwards output values along links with type-match checking,
// and keeps a persistent per-socket value cache alive across runs.
package executor
