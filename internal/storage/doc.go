// Package storage implements the executor-owned named storage side channel
// (spec component C6): a process-lifetime string-keyed map of boxed values
// that lets func_storage_in/func_storage_out node pairs, and the
// simulation_out/simulation_in one-tick feedback mechanism, persist values
// across graph executions.
package storage
