// Package redisstorage is a Redis-backed storage.NamedStorage, letting
// simulation/feedback state on a running graph survive a process restart
// instead of living only in an in-memory map.
package redisstorage
