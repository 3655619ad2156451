// Package region provides a scoped bump allocator for small fixed-size
// bookkeeping records.
//
// A Region hands out records from chunked backing slices and releases them
// all at once. Records are never freed individually; Release drops every
// chunk in one step. This matches the lifetime of per-pass bookkeeping
// (e.g. a serialization context and its stack entries) where everything is
// reclaimed together once the result has been extracted.
//
// Unlike a general-purpose arena, a Region is owned by a single goroutine.
// Serialization passes are strictly sequential, so no atomics or locks are
// involved.
package region

// DefaultChunkRecords is the number of records allocated per chunk.
const DefaultChunkRecords = 32

// Region is a chunked bump allocator for records of type T.
type Region[T any] struct {
	chunks    [][]T
	next      int // next free index in the last chunk
	chunkSize int
	allocs    int
}

// New creates a Region with the given records-per-chunk granularity.
// If chunkRecords <= 0, DefaultChunkRecords is used.
func New[T any](chunkRecords int) *Region[T] {
	if chunkRecords <= 0 {
		chunkRecords = DefaultChunkRecords
	}
	return &Region[T]{chunkSize: chunkRecords}
}

// Alloc returns a pointer to a zeroed record. The record remains valid
// until Release is called; it is never moved.
func (r *Region[T]) Alloc() *T {
	if len(r.chunks) == 0 || r.next == r.chunkSize {
		r.chunks = append(r.chunks, make([]T, r.chunkSize))
		r.next = 0
	}
	rec := &r.chunks[len(r.chunks)-1][r.next]
	r.next++
	r.allocs++
	return rec
}

// Allocs returns the number of records handed out since creation or the
// last Release.
func (r *Region[T]) Allocs() int {
	return r.allocs
}

// Release drops all chunks at once. Every record previously returned by
// Alloc becomes invalid. The Region may be reused afterwards.
func (r *Region[T]) Release() {
	r.chunks = nil
	r.next = 0
	r.allocs = 0
}
