package serializer

import (
	"unsafe"

	"github.com/hupe1980/flatpack/internal/buffer"
	"github.com/hupe1980/flatpack/internal/region"
)

const (
	// DefaultAlign is the boundary sub-structure images are padded to
	// before being appended. It covers every scalar the platform supports
	// at its default alignment; structures with stricter requirements
	// (e.g. hand-aligned SIMD blocks) are outside this package's
	// guarantees.
	DefaultAlign = 8

	// slotSize is the width of a patched pointer field: one native word.
	slotSize = int(unsafe.Sizeof(uintptr(0)))
)

// stackEntry records that the structure at source was copied to the byte
// range starting at target in the buffer. The chain through upper mirrors
// the caller's current nesting depth in the original graph.
type stackEntry struct {
	source unsafe.Pointer
	target int
	upper  *stackEntry
}

// Context accumulates one serialization pass. It is single-use and must
// be driven by a single goroutine.
type Context struct {
	buf     *buffer.Buffer
	top     *stackEntry
	entries *region.Region[stackEntry]
}

// New begins a serialization pass.
//
// If root is non-nil, its first structSize bytes are copied verbatim to
// offset 0 and the structure becomes the bottom of the stack. A nil root
// starts with an empty stack, which supports serializing a bare string or
// supplying the root through the first Push.
//
// suggestedCapacity sizes the initial buffer to reduce relocation during
// the pass; the effective capacity is at least structSize.
func New(root unsafe.Pointer, structSize, suggestedCapacity int) *Context {
	capacity := suggestedCapacity
	if capacity < structSize {
		capacity = structSize
	}

	c := &Context{
		buf:     buffer.New(capacity),
		entries: region.New[stackEntry](0),
	}

	if root != nil {
		e := c.entries.Alloc()
		e.source = root
		e.target = 0
		c.top = e

		c.buf.AppendPointer(root, structSize)
	}

	return c
}

// patchSlot overwrites the copied image of the pointer field at field
// with the offset at which the referenced data is about to be appended,
// relative to the enclosing structure's image. A nil referent stores 0.
//
// field must address a pointer-width field inside the original memory of
// the structure on top of the stack, and that structure must already have
// been copied into the buffer.
func (c *Context) patchSlot(field unsafe.Pointer, referentNil bool) {
	// The root structure has no parent image to patch.
	if c.top == nil {
		return
	}

	// Unsigned arithmetic: a field before the struct start wraps around
	// and fails the range check below.
	slot := uintptr(field) - uintptr(c.top.source) + uintptr(c.top.target)
	if slot+uintptr(slotSize) > uintptr(c.buf.Len()) {
		panic("serializer: field lies outside the serialized image of the current structure")
	}

	var off uintptr
	if !referentNil {
		off = uintptr(c.buf.Len() - c.top.target)
	}
	*(*uintptr)(unsafe.Pointer(&c.buf.Bytes()[slot])) = off
}

// Push enters the sub-structure referenced by the pointer field at field.
//
// field must address a pointer-typed field inside the original memory of
// the structure currently on top of the stack. The field's copied image
// is patched with the child's upcoming offset (0 if the child is nil),
// the child becomes the new top of the stack, and its structSize bytes
// are appended verbatim. Subsequent patch operations are computed
// relative to the child until the matching Pop.
//
// Appending may relocate the buffer; addresses into it obtained before
// this call must not be reused.
func (c *Context) Push(field unsafe.Pointer, structSize int) {
	child := *(*unsafe.Pointer)(field)

	// The child image must start on an alignment boundary. Nothing is
	// appended for a nil child, so nothing needs padding either.
	if child != nil {
		c.buf.PadTo(DefaultAlign)
	}

	c.patchSlot(field, child == nil)

	e := c.entries.Alloc()
	e.source = child
	e.target = c.buf.Len()
	e.upper = c.top
	c.top = e

	if child != nil {
		c.buf.AppendPointer(child, structSize)
	}
}

// Pop leaves the current sub-structure. Later patch operations are again
// computed relative to its parent. The buffer is not modified.
func (c *Context) Pop() {
	if c.top == nil {
		panic("serializer: pop on empty structure stack")
	}
	c.top = c.top.upper
}

// AddString serializes the string referenced by the field at s. The
// field's copied image is patched like a Push slot, then the string's
// content plus a NUL terminator is appended. Strings are leaves: no
// stack entry is created and no alignment padding is applied.
//
// Every Go string, including the empty one, is treated as present; the
// terminator guarantees a non-zero offset, so an empty string remains
// distinguishable from a field forced absent via SetNull. The header's
// length word travels verbatim inside the enclosing structure's image.
func (c *Context) AddString(s *string) {
	c.patchSlot(unsafe.Pointer(s), false)

	c.buf.Append(unsafe.Slice(unsafe.StringData(*s), len(*s)))
	c.buf.Append([]byte{0})
}

// AddBytes serializes the byte slice referenced by the field at b, under
// the same patch discipline as AddString. A nil slice stores 0 and
// appends nothing. Only len(*b) bytes are appended; the header's length
// and capacity words travel verbatim and the capacity is clamped to the
// length on resolution.
func (c *Context) AddBytes(b *[]byte) {
	c.patchSlot(unsafe.Pointer(b), *b == nil)

	if *b != nil {
		c.buf.Append(*b)
	}
}

// SetNull overwrites the copied image of the pointer field at field with
// 0, forcing it to deserialize as nil regardless of its original value.
// Used to truncate how deep a reference graph is flattened. The buffer
// length is unchanged.
func (c *Context) SetNull(field unsafe.Pointer) {
	if c.top == nil {
		panic("serializer: set-null with empty structure stack")
	}

	slot := uintptr(field) - uintptr(c.top.source) + uintptr(c.top.target)
	if slot+uintptr(slotSize) > uintptr(c.buf.Len()) {
		panic("serializer: field lies outside the serialized image of the current structure")
	}

	*(*uintptr)(unsafe.Pointer(&c.buf.Bytes()[slot])) = 0
}

// Finish returns the bytes accumulated so far. It may be called at any
// time and repeatedly; with no intervening mutation the result is
// unchanged. The returned slice is the blob itself, independent of the
// context and the original structures.
func (c *Context) Finish() []byte {
	return c.buf.Bytes()
}

// Release drops the pass's bookkeeping (the structure stack and its
// backing region) in one step. The blob returned by Finish is unaffected.
// The context must not be used afterwards.
func (c *Context) Release() {
	c.top = nil
	c.entries.Release()
}
