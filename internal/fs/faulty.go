package fs

import (
	"errors"
	"os"
	"sync"
)

// ErrInjected is the default error surfaced by injected faults.
var ErrInjected = errors.New("fs: injected fault")

// FaultyFS wraps a FileSystem and injects failures on the write path.
// The zero configuration injects nothing.
type FaultyFS struct {
	inner FileSystem

	mu             sync.Mutex
	written        int64
	failAfterBytes int64
	failOnSync     bool
	failOnRename   bool
}

// NewFaultyFS wraps inner, or Default when inner is nil.
func NewFaultyFS(inner FileSystem) *FaultyFS {
	if inner == nil {
		inner = Default
	}
	return &FaultyFS{inner: inner, failAfterBytes: -1}
}

// FailWriteAfter makes writes fail once n total bytes have been
// written across all files.
func (f *FaultyFS) FailWriteAfter(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAfterBytes = n
}

// FailOnSync makes every Sync fail.
func (f *FaultyFS) FailOnSync() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOnSync = true
}

// FailOnRename makes every Rename fail.
func (f *FaultyFS) FailOnRename() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOnRename = true
}

// Written returns the total bytes written so far.
func (f *FaultyFS) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

func (f *FaultyFS) CreateTemp(dir, pattern string) (File, error) {
	file, err := f.inner.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	f.mu.Lock()
	fail := f.failOnRename
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.inner.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error {
	return f.inner.Remove(name)
}

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.inner.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fs *FaultyFS
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	ff.fs.mu.Lock()
	exceeded := ff.fs.failAfterBytes >= 0 && ff.fs.written+int64(len(p)) > ff.fs.failAfterBytes
	if !exceeded {
		ff.fs.written += int64(len(p))
	}
	ff.fs.mu.Unlock()

	if exceeded {
		return 0, ErrInjected
	}
	return ff.File.Write(p)
}

func (ff *faultyFile) Sync() error {
	ff.fs.mu.Lock()
	fail := ff.fs.failOnSync
	ff.fs.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return ff.File.Sync()
}
