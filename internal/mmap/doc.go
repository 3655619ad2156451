// Package mmap provides read-only memory-mapped file access.
//
// Serialized blobs written to disk can be mapped instead of read into
// heap memory. A mapped blob is served straight from the page cache, so
// many processes sharing the same file share one physical copy. Because
// the mapping is read-only, it pairs with the read-only accessor
// discipline: callers must never resolve a mapped blob in place.
//
//	m, err := mmap.Open("node.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	blob := m.Bytes()
//
// Packed files holding several blobs can expose each one through a
// Range view without remapping:
//
//	r, _ := m.Range(offset, length)
//	blob := r.Bytes()
//
// On Unix the package uses mmap(2) and madvise(2) via golang.org/x/sys;
// on Windows it uses CreateFileMapping/MapViewOfFile and access hints
// are a no-op. Mappings are safe for concurrent readers; Close is
// idempotent, but callers must not touch Bytes after Close returns.
package mmap
