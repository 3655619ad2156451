package blobstore

import (
	"context"

	"github.com/hupe1980/flatpack/cache"
	"golang.org/x/sync/singleflight"
)

const cacheNamespace = "blob"

// CachingStore wraps a Store with a whole-blob cache. Concurrent
// misses for the same name are coalesced into one backend fetch.
type CachingStore struct {
	inner Store
	cache cache.BlobCache
	group singleflight.Group
}

// NewCachingStore wraps inner with the given cache.
func NewCachingStore(inner Store, c cache.BlobCache) *CachingStore {
	return &CachingStore{inner: inner, cache: c}
}

func cacheKey(name string) cache.Key {
	return cache.Key{Namespace: cacheNamespace, ID: name}
}

// Get returns the complete blob, fetching it from the backend on a
// miss. The returned slice is shared with the cache: resolve it with
// read-only accessors and never mutate it.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if blob, ok := s.cache.Get(ctx, cacheKey(name)); ok {
		return blob, nil
	}
	return s.fetch(ctx, name, false)
}

// GetCopy returns a private copy of the blob, suitable for in-place
// resolution.
func (s *CachingStore) GetCopy(ctx context.Context, name string) ([]byte, error) {
	if blob, ok := s.cache.GetCopy(ctx, cacheKey(name)); ok {
		return blob, nil
	}
	return s.fetch(ctx, name, true)
}

func (s *CachingStore) fetch(ctx context.Context, name string, private bool) ([]byte, error) {
	v, err, _ := s.group.Do(name, func() (any, error) {
		blob, err := ReadAll(ctx, s.inner, name)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, cacheKey(name), blob)
		return blob, nil
	})
	if err != nil {
		return nil, err
	}

	blob := v.([]byte)
	if private {
		out := make([]byte, len(blob))
		copy(out, blob)
		return out, nil
	}
	return blob, nil
}

// Open bypasses the cache and opens the backend blob directly.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	return s.inner.Open(ctx, name)
}

// Create passes through to the backend. The cached entry is dropped
// so readers after Close see the new contents.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingBlob{WritableBlob: w, store: s, name: name}, nil
}

// Put writes through to the backend and drops the cached entry.
func (s *CachingStore) Put(ctx context.Context, name string, blob []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, blob)
}

// Delete removes the blob from the backend and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the backend.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.group.Forget(name)
	s.cache.Invalidate(func(key cache.Key) bool {
		return key.Namespace == cacheNamespace && key.ID == name
	})
}

type invalidatingBlob struct {
	WritableBlob
	store *CachingStore
	name  string
}

func (w *invalidatingBlob) Close() error {
	w.store.invalidate(w.name)
	return w.WritableBlob.Close()
}

var _ Store = (*CachingStore)(nil)
