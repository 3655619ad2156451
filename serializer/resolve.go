package serializer

import "unsafe"

// stringHeader mirrors the runtime layout of a string: a data word
// followed by a length word. The patch step stores the offset in the
// data word; the length word is carried verbatim by the enclosing
// structure's image.
type stringHeader struct {
	data unsafe.Pointer
	len  int
}

// sliceHeader mirrors the runtime layout of a slice.
type sliceHeader struct {
	data unsafe.Pointer
	len  int
	cap  int
}

// ResolveInPlace rewrites the relative offset stored at slot into a real
// pointer: base plus the offset, or nil if the stored value is 0.
//
// base must be the resolved address of the structure instance that
// directly owns the slot as a field, never the blob's global start
// (offsets are relative to their immediate container). Since it mutates
// the blob, ResolveInPlace is only safe on a buffer owned exclusively by
// the caller; use Deref for shared blobs.
func ResolveInPlace(base, slot unsafe.Pointer) {
	off := *(*uintptr)(slot)
	if off == 0 {
		*(*unsafe.Pointer)(slot) = nil
		return
	}
	*(*unsafe.Pointer)(slot) = unsafe.Add(base, off)
}

// Deref computes the pointer a resolved slot would hold, without writing
// to the blob. It is the only accessor safe against a blob visible to
// multiple concurrent readers.
func Deref(base, slot unsafe.Pointer) unsafe.Pointer {
	off := *(*uintptr)(slot)
	if off == 0 {
		return nil
	}
	return unsafe.Add(base, off)
}

// Resolve is the typed form of ResolveInPlace for a struct pointer field.
func Resolve[T any](base unsafe.Pointer, field **T) {
	ResolveInPlace(base, unsafe.Pointer(field))
}

// Ptr is the typed form of Deref for a struct pointer field.
func Ptr[T any](base unsafe.Pointer, field **T) *T {
	return (*T)(Deref(base, unsafe.Pointer(field)))
}

// ResolveString rewrites a serialized string field in place. An offset of
// 0 (a field forced absent via SetNull) yields the empty string; the
// stale length word is cleared along with it.
func ResolveString(base unsafe.Pointer, field *string) {
	h := (*stringHeader)(unsafe.Pointer(field))
	off := *(*uintptr)(unsafe.Pointer(field))
	if off == 0 {
		h.data, h.len = nil, 0
		return
	}
	h.data = unsafe.Add(base, off)
}

// Str returns the string a serialized string field refers to, without
// mutating the blob. An offset of 0 yields the empty string.
func Str(base unsafe.Pointer, field *string) string {
	off := *(*uintptr)(unsafe.Pointer(field))
	if off == 0 {
		return ""
	}
	h := (*stringHeader)(unsafe.Pointer(field))
	return unsafe.String((*byte)(unsafe.Add(base, off)), h.len)
}

// ResolveBytes rewrites a serialized byte-slice field in place. The
// capacity is clamped to the length, since only len bytes were appended.
// An offset of 0 yields a nil slice.
func ResolveBytes(base unsafe.Pointer, field *[]byte) {
	h := (*sliceHeader)(unsafe.Pointer(field))
	off := *(*uintptr)(unsafe.Pointer(field))
	if off == 0 {
		h.data, h.len, h.cap = nil, 0, 0
		return
	}
	h.data = unsafe.Add(base, off)
	h.cap = h.len
}

// Bytes returns the byte slice a serialized slice field refers to,
// without mutating the blob. An offset of 0 yields nil.
func Bytes(base unsafe.Pointer, field *[]byte) []byte {
	off := *(*uintptr)(unsafe.Pointer(field))
	if off == 0 {
		return nil
	}
	h := (*sliceHeader)(unsafe.Pointer(field))
	return unsafe.Slice((*byte)(unsafe.Add(base, off)), h.len)
}
