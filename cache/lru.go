package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/flatpack/resource"
)

// LRU is a least-recently-used BlobCache bounded by a byte capacity.
type LRU struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[Key]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type lruEntry struct {
	key  Key
	blob []byte
}

// NewLRU creates an LRU cache holding at most capacity bytes of blob
// data. If rc is non-nil, cached bytes are accounted against it; when
// the controller denies a reservation the value is not cached.
func NewLRU(capacity int64, rc *resource.Controller) *LRU {
	return &LRU{
		capacity:  capacity,
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns the cached blob. The slice is shared; see BlobCache.
func (c *LRU) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*lruEntry).blob, true
	}
	c.misses.Add(1)
	return nil, false
}

// GetCopy returns a private copy of the cached blob.
func (c *LRU) GetCopy(ctx context.Context, key Key) ([]byte, bool) {
	shared, ok := c.Get(ctx, key)
	if !ok {
		return nil, false
	}
	private := make([]byte, len(shared))
	copy(private, shared)
	return private, true
}

// Set caches a blob, evicting older entries to fit the byte capacity.
func (c *LRU) Set(_ context.Context, key Key, blob []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)

		oldSize := int64(len(ent.Value.(*lruEntry).blob))
		newSize := int64(len(blob))
		if newSize > oldSize && !c.rc.TryAcquireMemory(newSize-oldSize) {
			// Budget denied: keep the old value.
			return
		}
		if newSize < oldSize {
			c.rc.ReleaseMemory(oldSize - newSize)
		}

		c.size += newSize - oldSize
		ent.Value.(*lruEntry).blob = blob
		c.evict()
		return
	}

	itemSize := int64(len(blob))
	if itemSize > c.capacity {
		return
	}

	// Evict first so the controller sees released bytes before the new
	// reservation.
	for c.size+itemSize > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}

	if !c.rc.TryAcquireMemory(itemSize) {
		return
	}

	element := c.evictList.PushFront(&lruEntry{key: key, blob: blob})
	c.items[key] = element
	c.size += itemSize
}

// Invalidate removes every entry matching the predicate.
func (c *LRU) Invalidate(predicate func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, element := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, element)
		}
	}
	for _, e := range toRemove {
		c.removeElement(e)
	}
}

// Size returns the cached bytes currently held.
func (c *LRU) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns cumulative hit and miss counts.
func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close releases all entries.
func (c *LRU) Close() error {
	c.Invalidate(func(Key) bool { return true })
	return nil
}

func (c *LRU) evict() {
	for c.size > c.capacity {
		back := c.evictList.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

func (c *LRU) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*lruEntry)
	delete(c.items, ent.key)
	itemSize := int64(len(ent.blob))
	c.size -= itemSize
	c.rc.ReleaseMemory(itemSize)
}

var _ BlobCache = (*LRU)(nil)
