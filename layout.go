package flatpack

import (
	"errors"
	"fmt"
	"unsafe"
)

// Kind classifies a directive: what the field at the given offset is.
type Kind uint8

const (
	// KindStruct marks a pointer field referencing a sub-structure
	// described by the directive's Elem layout.
	KindStruct Kind = iota + 1
	// KindString marks a string field (leaf).
	KindString
	// KindBytes marks a byte-slice field (leaf).
	KindBytes
)

const wordSize = uintptr(unsafe.Sizeof(uintptr(0)))

// ErrNilLayout is returned when a nil layout is supplied.
var ErrNilLayout = errors.New("flatpack: nil layout")

// Field is one traversal directive: "the field at byte offset Offset is
// a sub-structure / a string / a byte slice". Directives are applied in
// order; the order defines the blob's physical layout and must match
// between writer and reader.
type Field struct {
	// Name identifies the field in error messages. It carries no wire
	// meaning.
	Name string
	// Offset is the field's byte offset inside its structure, as
	// reported by unsafe.Offsetof.
	Offset uintptr
	// Kind classifies the field.
	Kind Kind
	// Elem describes the referenced structure for KindStruct fields.
	// Layouts may be self-referential (linked structures).
	Elem *Layout
}

// Layout is the ordered directive list for one structure type.
type Layout struct {
	// Size is the structure's size in bytes (unsafe.Sizeof).
	Size uintptr
	// Fields lists the pointer-bearing fields in traversal order.
	// Scalar fields need no directive; they travel inside the verbatim
	// image.
	Fields []Field
}

// Validate checks the directive list for internal consistency: every
// field slot must lie inside the structure, and struct directives must
// carry an element layout. Self-referential layouts are handled.
func (l *Layout) Validate() error {
	return l.validate(map[*Layout]bool{})
}

func (l *Layout) validate(seen map[*Layout]bool) error {
	if l == nil {
		return ErrNilLayout
	}
	if seen[l] {
		return nil
	}
	seen[l] = true

	if l.Size == 0 {
		return errors.New("flatpack: layout has zero size")
	}

	for i, f := range l.Fields {
		width, err := f.width()
		if err != nil {
			return fmt.Errorf("flatpack: field %s: %w", f.label(i), err)
		}
		if f.Offset+width > l.Size {
			return fmt.Errorf("flatpack: field %s at offset %d exceeds structure size %d",
				f.label(i), f.Offset, l.Size)
		}
		if f.Kind == KindStruct {
			if f.Elem == nil {
				return fmt.Errorf("flatpack: struct field %s has no element layout", f.label(i))
			}
			if err := f.Elem.validate(seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// width returns the field's in-memory footprint: one word for a pointer,
// two for a string header, three for a slice header.
func (f *Field) width() (uintptr, error) {
	switch f.Kind {
	case KindStruct:
		return wordSize, nil
	case KindString:
		return 2 * wordSize, nil
	case KindBytes:
		return 3 * wordSize, nil
	default:
		return 0, fmt.Errorf("unknown kind %d", f.Kind)
	}
}

func (f *Field) label(i int) string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("#%d", i)
}
