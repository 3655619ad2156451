package mmap

// A Range is a view of part of a mapping, typically one blob inside a
// packed file. It does not own the memory; the parent Mapping does.
type Range struct {
	parent *Mapping
	offset int
	length int
}

// Range creates a view covering [offset, offset+length) of the mapping.
func (m *Mapping) Range(offset, length int) (*Range, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if offset < 0 || length < 0 || offset+length > m.length {
		return nil, ErrOutOfBounds
	}
	return &Range{parent: m, offset: offset, length: length}, nil
}

// Bytes returns the viewed slice, or nil once the parent is closed.
func (r *Range) Bytes() []byte {
	if r.parent.closed.Load() {
		return nil
	}
	return r.parent.data[r.offset : r.offset+r.length]
}

// Len returns the view's length in bytes.
func (r *Range) Len() int {
	return r.length
}

// Advise hints the access pattern for just this part of the mapping.
func (r *Range) Advise(pattern AccessPattern) error {
	if r.parent.closed.Load() {
		return ErrClosed
	}
	return osAdvise(r.parent.data[r.offset:r.offset+r.length], pattern)
}
