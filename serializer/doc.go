// Package serializer flattens pointer-linked structures into a single
// contiguous, relocatable byte blob.
//
// # Overview
//
// A serialization pass concatenates the verbatim memory images of a
// structure tree and its strings into one buffer. Every pointer field in
// a copied image is overwritten with a pointer-width integer holding the
// byte offset of the referenced child, relative to the start of the
// *enclosing structure's* image (not the blob start). An offset of 0
// always means nil.
//
// Because offsets are self-relative, the finished blob can be copied,
// cached, memory-mapped or relocated as one unit, and any sub-blob stays
// resolvable from its own base. Deserialization is just offset
// arithmetic: no parsing, no per-field allocation.
//
// # Serializing
//
// The caller drives the traversal explicitly. At each pointer field it
// calls Push (sub-structure), AddString/AddBytes (leaf) or SetNull, and
// Pop after a sub-structure's fields are done:
//
//	ctx := serializer.New(unsafe.Pointer(p), int(unsafe.Sizeof(*p)), 256)
//	ctx.Push(unsafe.Pointer(&p.Child), int(unsafe.Sizeof(*p.Child)))
//	ctx.AddString(&p.Child.Name)
//	ctx.Pop()
//	blob := ctx.Finish()
//
// Misuse of the traversal protocol (unbalanced Push/Pop, patching a field
// that lies outside the structure on top of the stack) is a programming
// error and panics.
//
// # Resolving
//
// Two access disciplines exist, matched to two sharing regimes.
// ResolveInPlace and the typed Resolve* helpers rewrite stored offsets
// into real pointers and may only be used on a blob owned exclusively by
// the caller. Deref, Ptr, Str and Bytes compute the same result without
// writing and are the only accessors safe against a blob shared between
// concurrent readers.
//
// Resolved pointers reference the blob's own backing array. They stay
// valid for as long as the blob slice is reachable; the accessors perform
// no structural validation, so resolving a blob not produced by this
// package is undefined.
package serializer
