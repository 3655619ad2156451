package flatpack

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/flatpack/serializer"
)

var (
	// ErrNilRoot is returned when Flatten is given a nil root.
	ErrNilRoot = errors.New("flatpack: nil root structure")
	// ErrShortBlob is returned when a blob is smaller than the root
	// structure it is supposed to contain.
	ErrShortBlob = errors.New("flatpack: blob shorter than root structure")
)

// Flatten serializes the structure tree rooted at root into a fresh
// blob, driving the serializer through the layout's directives. The
// original structures are read but never modified.
func Flatten(root unsafe.Pointer, layout *Layout, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)

	if root == nil {
		return nil, ErrNilRoot
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	ctx := serializer.New(root, int(layout.Size), o.capacityHint)
	defer ctx.Release()

	flattenFields(ctx, root, layout, 0, o)

	blob := ctx.Finish()
	o.logger.LogFlatten(len(blob), len(layout.Fields))
	return blob, nil
}

func flattenFields(ctx *serializer.Context, src unsafe.Pointer, layout *Layout, depth int, o *options) {
	for i := range layout.Fields {
		f := &layout.Fields[i]
		field := unsafe.Add(src, f.Offset)

		switch f.Kind {
		case KindString:
			ctx.AddString((*string)(field))
		case KindBytes:
			ctx.AddBytes((*[]byte)(field))
		case KindStruct:
			child := *(*unsafe.Pointer)(field)
			if child != nil && o.maxDepth > 0 && depth+1 > o.maxDepth {
				// Truncate the graph here: the copied slot is forced
				// back to null and the child is never appended.
				ctx.SetNull(field)
				continue
			}
			ctx.Push(field, int(f.Elem.Size))
			if child != nil {
				flattenFields(ctx, child, f.Elem, depth+1, o)
			}
			ctx.Pop()
		}
	}
}

// Unflatten resolves every offset in blob in place and returns the typed
// root. The blob must be owned exclusively by the caller: resolution
// rewrites the stored offsets into real pointers. After Unflatten the
// blob must not be relocated, and the returned tree stays valid only as
// long as the blob slice is reachable.
func Unflatten[T any](blob []byte, layout *Layout) (*T, error) {
	base, err := checkBlob(blob, layout)
	if err != nil {
		return nil, err
	}
	if got, want := unsafe.Sizeof(*new(T)), layout.Size; got != want {
		return nil, fmt.Errorf("flatpack: type size %d does not match layout size %d", got, want)
	}

	resolveFields(base, layout)
	return (*T)(base), nil
}

func resolveFields(base unsafe.Pointer, layout *Layout) {
	for i := range layout.Fields {
		f := &layout.Fields[i]
		field := unsafe.Add(base, f.Offset)

		switch f.Kind {
		case KindString:
			serializer.ResolveString(base, (*string)(field))
		case KindBytes:
			serializer.ResolveBytes(base, (*[]byte)(field))
		case KindStruct:
			serializer.ResolveInPlace(base, field)
			if child := *(*unsafe.Pointer)(field); child != nil {
				resolveFields(child, f.Elem)
			}
		}
	}
}

// View returns the typed root of blob without mutating it. Pointer,
// string and byte-slice fields still hold offsets and must be read
// through the serializer package's read-only accessors (Ptr, Str,
// Bytes), each with the owning structure's address as base. This is the
// only way to consume a blob shared between concurrent readers.
func View[T any](blob []byte, layout *Layout) (*T, error) {
	base, err := checkBlob(blob, layout)
	if err != nil {
		return nil, err
	}
	if got, want := unsafe.Sizeof(*new(T)), layout.Size; got != want {
		return nil, fmt.Errorf("flatpack: type size %d does not match layout size %d", got, want)
	}
	return (*T)(base), nil
}

func checkBlob(blob []byte, layout *Layout) (unsafe.Pointer, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if uintptr(len(blob)) < layout.Size {
		return nil, ErrShortBlob
	}
	return unsafe.Pointer(&blob[0]), nil
}
