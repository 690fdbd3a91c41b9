// Package storage provides the keyed session storage substrate.
//
// The substrate is string-in, string-out: no business semantics live here.
// Implementations must never surface I/O failures to callers; they log and
// carry on, since the in-memory view is the source of truth.
package storage

// Store is the session-scoped key/value substrate all layers read through.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string)
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
	// Clear removes every key.
	Clear()
	// Keys returns a snapshot of all present keys.
	Keys() []string
}
