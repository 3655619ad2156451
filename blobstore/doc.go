// Package blobstore abstracts storage for serialized blobs.
//
// A Store reads and writes named immutable blobs. Blobs hold flattened
// structures, so whole-blob reads dominate; ReadAt exists for callers
// that only need a slice of a packed file.
//
// # Built-in implementations
//
//   - MemoryStore: in-memory, mainly for tests
//   - LocalStore: local filesystem, memory-mapped reads, atomic writes
//   - CachingStore: wraps another Store with a blob cache and
//     request coalescing
//   - CompressedStore: wraps another Store with transparent
//     zstd or lz4 compression
//   - s3.Store, minio.Store: object storage backends
//
// Implementations must be safe for concurrent use. A missing blob is
// reported with an error satisfying errors.Is(err, ErrNotFound).
//
// Blobs obtained from a shared source (CachingStore.Get, a mapped
// LocalStore blob) follow the read-only accessor discipline: resolve
// them with View-style accessors and never mutate them in place.
package blobstore
