package executor

import "github.com/Jerry-Shen0527/rznode/internal/typed"

// cacheEntry is one socket's persistent-cache record, surviving across
// execute_tree calls until its socket identity is pruned at compile time.
type cacheEntry struct {
	value    typed.Any
	isCached bool
}

// slot is one socket's transient per-compile record. A fresh index is built
// by prepareMemory on every compile and discarded at the end of the run
// (after being copied back into the persistent cache).
type slot struct {
	value       typed.Any
	isCached    bool
	isForwarded bool
	// keepAlive marks a slot linked into a func_storage_in node, so its
	// value is not considered for opportunistic release by implementations
	// that track last-reader information (spec §4.5.4 step 5).
	keepAlive bool
}
