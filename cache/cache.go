// Package cache provides byte-budgeted in-memory caches for serialized
// blobs.
//
// Cached values are shared: Get hands back the cached slice itself, so
// callers must treat it as immutable and read it through the read-only
// accessors. GetCopy returns a private copy that is safe for in-place
// resolution. Mixing the two disciplines up corrupts the cache for every
// other reader.
package cache

import "context"

// Key identifies a cached blob.
type Key struct {
	// Namespace groups related blobs (e.g. one per layout or store).
	Namespace string
	// ID is the blob's identifier within its namespace.
	ID string
}

// BlobCache is a byte-budgeted cache of immutable blobs.
// Implementations are safe for concurrent use.
type BlobCache interface {
	// Get returns the cached blob. The returned slice is shared and must
	// not be mutated or resolved in place.
	Get(ctx context.Context, key Key) ([]byte, bool)

	// GetCopy returns a private copy of the cached blob, suitable for
	// in-place resolution.
	GetCopy(ctx context.Context, key Key) ([]byte, bool)

	// Set caches a blob. The cache takes no ownership of the slice; the
	// caller must not mutate it afterwards. Oversized or over-budget
	// values may be silently dropped.
	Set(ctx context.Context, key Key, blob []byte)

	// Invalidate removes every entry matching the predicate.
	Invalidate(predicate func(key Key) bool)

	// Size returns the cached bytes currently held.
	Size() int64

	// Stats returns cumulative hit and miss counts.
	Stats() (hits, misses int64)

	Close() error
}
