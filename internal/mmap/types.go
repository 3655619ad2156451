package mmap

import "errors"

// AccessPattern hints to the kernel how the mapped bytes will be read.
type AccessPattern int

const (
	// AccessDefault leaves the kernel's readahead policy unchanged.
	AccessDefault AccessPattern = iota
	// AccessSequential expects a front-to-back scan of the mapping.
	AccessSequential
	// AccessRandom expects scattered point reads, as when following
	// offsets through a large blob.
	AccessRandom
	// AccessWillNeed asks the kernel to fault the pages in soon.
	AccessWillNeed
	// AccessDontNeed tells the kernel the pages can be reclaimed.
	AccessDontNeed
)

var (
	// ErrClosed is returned when a mapping is used after Close.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrOutOfBounds is returned when a range falls outside the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrInvalidOffset is returned for a negative read offset.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
