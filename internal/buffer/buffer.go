// Package buffer provides the growable byte buffer that accumulates
// serialized data.
//
// The buffer is a single contiguous byte sequence. Growing it may relocate
// the backing array, so addresses derived from Bytes() must not be cached
// across any call that can append.
package buffer

import "unsafe"

// Buffer is a relocatable, append-only byte sequence.
// The zero value is not usable; call New.
type Buffer struct {
	data []byte
}

// New creates a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the current capacity of the backing array.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Bytes returns the accumulated bytes. The slice aliases the backing
// array and is invalidated by the next append.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// EnsureCapacity grows the backing array so that at least n bytes fit
// without further relocation. The length is unchanged.
func (b *Buffer) EnsureCapacity(n int) {
	if n <= cap(b.data) {
		return
	}
	grown := make([]byte, len(b.data), n)
	copy(grown, b.data)
	b.data = grown
}

// Append copies p onto the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// AppendPointer copies size bytes starting at ptr onto the end of the
// buffer. ptr must reference at least size readable bytes.
func (b *Buffer) AppendPointer(ptr unsafe.Pointer, size int) {
	if size <= 0 {
		return
	}
	b.data = append(b.data, unsafe.Slice((*byte)(ptr), size)...)
}

// PadTo extends the buffer with zero bytes until its length is a multiple
// of align. align must be a power of two. No-op if already aligned.
func (b *Buffer) PadTo(align int) {
	mask := align - 1
	aligned := (len(b.data) + mask) &^ mask
	for len(b.data) < aligned {
		b.data = append(b.data, 0)
	}
}
