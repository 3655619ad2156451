package blobstore

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/flatpack/internal/fs"
	"github.com/hupe1980/flatpack/internal/mmap"
	"github.com/hupe1980/flatpack/resource"
)

// LocalStore is a filesystem Store rooted at a directory. Reads are
// memory-mapped, so opened blobs share the page cache; writes go to a
// temp file and are renamed into place.
type LocalStore struct {
	root string
	fsys fs.FileSystem
	rc   *resource.Controller
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithResourceController throttles the store's writes against the
// controller's IO budget.
func WithResourceController(rc *resource.Controller) LocalOption {
	return func(s *LocalStore) {
		s.rc = rc
	}
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
func NewLocalStore(dir string, optFns ...LocalOption) (*LocalStore, error) {
	s := &LocalStore{root: dir, fsys: fs.Default}
	for _, fn := range optFns {
		fn(s)
	}

	if err := s.fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create root: %w", err)
	}
	return s, nil
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open memory-maps the named blob. The handle implements Mappable for
// zero-copy access; treat the mapped bytes as read-only.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	return &localBlob{m: m}, nil
}

// Create opens a temp file next to the target; Close syncs and renames
// it into place so readers never see a partial blob.
func (s *LocalStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	target := s.path(name)
	if err := s.fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}

	f, err := s.fsys.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return nil, err
	}

	var w io.Writer = f
	if s.rc != nil {
		w = resource.NewRateLimitedWriter(ctx, f, s.rc)
	}
	return &localWritableBlob{f: f, w: w, fsys: s.fsys, target: target}, nil
}

// Put writes the blob atomically via Create.
func (s *LocalStore) Put(ctx context.Context, name string, blob []byte) error {
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(blob); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Delete removes the named blob. A missing blob is not an error.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := s.fsys.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List walks the root and returns blob names starting with prefix,
// sorted. Names use forward slashes regardless of platform.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Size() int64 {
	return int64(b.m.Len())
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Bytes() ([]byte, error) {
	return b.m.Bytes(), nil
}

type localWritableBlob struct {
	f        fs.File
	w        io.Writer
	fsys     fs.FileSystem
	target   string
	closed   bool
	writeErr error
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if err != nil {
		w.writeErr = err
	}
	return n, err
}

func (w *localWritableBlob) Sync() error {
	return w.f.Sync()
}

func (w *localWritableBlob) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	// A failed write must never become a visible blob.
	if w.writeErr != nil {
		_ = w.f.Close()
		_ = w.fsys.Remove(w.f.Name())
		return w.writeErr
	}

	if err := w.f.Sync(); err != nil {
		_ = w.f.Close()
		_ = w.fsys.Remove(w.f.Name())
		return err
	}
	if err := w.f.Close(); err != nil {
		_ = w.fsys.Remove(w.f.Name())
		return err
	}
	if err := w.fsys.Rename(w.f.Name(), w.target); err != nil {
		_ = w.fsys.Remove(w.f.Name())
		return err
	}
	return nil
}

var (
	_ Store    = (*LocalStore)(nil)
	_ Mappable = (*localBlob)(nil)
)
