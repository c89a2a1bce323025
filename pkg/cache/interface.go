// Package cache defines the key-value store abstraction mapping an original
// URL to its previously resolved expansion. Entries have no TTL; they live for
// the process lifetime (memory variant) or until the backend's own lifecycle
// removes them (persistent variants).
//
//go:generate mockgen -package mockcache -source=interface.go -destination=mock/mockcache.go *
package cache

import "context"

// Cache is the capability set shared by all backends. Implementations must be
// safe for concurrent use; a failed round-trip is surfaced as a
// serrors.ErrCacheBackend so the caller can decide whether to degrade.
type Cache interface {
	// Get returns the cached expansion for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the expansion for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Close releases any resources held by the backend.
	Close() error
}
