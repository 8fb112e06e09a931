// Package graphmodel implements the graph data structure (the spec's C3)
// and its topology cache (C4): nodes, typed sockets, links, socket groups,
// node-groups, toposort in both directions, cycle detection, and JSON
// serialize/deserialize.
//
// A NodeTree owns every Node and NodeLink in the graph in flat maps keyed by
// a stable id (the "arena + stable ids" replacement for the original's
// pointer-heavy object graph, per spec §9). Adjacency — "what is this
// socket directly linked to" — is a derived, non-owning cache rebuilt by
// EnsureTopologyCache whenever the tree is marked dirty; nothing in this
// package holds a raw pointer across a mutation without going back through
// the tree's maps.
//
// Per spec §5, NodeTree does no internal locking: callers (the executor,
// editors, API front-ends) are responsible for serializing their own
// mutations and executions.
package graphmodel
