// Package flatpack flattens pointer-linked Go structures into single
// contiguous, relocatable byte blobs and reads them back without parsing
// or per-field allocation.
//
// # How it works
//
// A blob is the concatenation of verbatim structure images and string
// contents. Every pointer field inside an image is replaced by a
// pointer-width integer: the byte offset of the referenced child,
// relative to the start of the enclosing structure's image. Offset 0
// means nil. Because offsets are self-relative, a blob (or any sub-blob)
// can be copied, cached, stored or memory-mapped and later resolved from
// whatever address it landed at.
//
// The low-level traversal protocol lives in the serializer package. This
// package adds a directive-driven engine on top: a Layout describes, per
// structure type, which fields are sub-structures and which are string
// or byte-slice leaves, and Flatten drives the serializer through the
// tree. No reflection is involved; the directive list is the explicit
// traversal order.
//
// # Quick start
//
//	type Child struct {
//	    Y    int64
//	    Name string
//	}
//	type Parent struct {
//	    X     int64
//	    Child *Child
//	}
//
//	childLayout := &flatpack.Layout{
//	    Size: unsafe.Sizeof(Child{}),
//	    Fields: []flatpack.Field{
//	        {Name: "name", Offset: unsafe.Offsetof(Child{}.Name), Kind: flatpack.KindString},
//	    },
//	}
//	parentLayout := &flatpack.Layout{
//	    Size: unsafe.Sizeof(Parent{}),
//	    Fields: []flatpack.Field{
//	        {Name: "child", Offset: unsafe.Offsetof(Parent{}.Child), Kind: flatpack.KindStruct, Elem: childLayout},
//	    },
//	}
//
//	blob, _ := flatpack.Flatten(unsafe.Pointer(p), parentLayout)
//
//	// Private copy: in-place resolution.
//	p2, _ := flatpack.Unflatten[Parent](blob, parentLayout)
//
//	// Shared blob (cache entry, mmap): read-only accessors.
//	v, _ := flatpack.View[Parent](blob, parentLayout)
//	name := serializer.Str(unsafe.Pointer(v), &v.Name)
//
// # Sharing disciplines
//
// Unflatten mutates the blob and must only be used on a buffer the
// caller owns exclusively. View never writes and is safe against a blob
// visible to many concurrent readers; so are the read-only accessors in
// the serializer package. The cache and blobstore packages store blobs
// under exactly these two regimes.
//
// # Limitations
//
// The blob carries no length, type tag or version marker; layout
// compatibility between writer and reader is the caller's
// responsibility. Graphs are trees as far as this package is concerned:
// a structure referenced twice is copied twice, and cycles are not
// detected. Alignment padding covers the platform default scalar
// alignment only.
package flatpack
