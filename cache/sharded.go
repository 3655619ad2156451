package cache

import (
	"context"
	"hash/maphash"

	"github.com/hupe1980/flatpack/resource"
)

const numShards = 16

// Sharded distributes blobs across independently locked LRU shards to
// reduce contention under many concurrent readers.
type Sharded struct {
	shards [numShards]*LRU
	seed   maphash.Seed
}

// NewSharded creates a sharded LRU cache. The byte capacity is divided
// evenly across the shards, so a single blob can never exceed
// capacity/numShards. If rc is non-nil, all shards account against it.
func NewSharded(capacity int64, rc *resource.Controller) *Sharded {
	shardCapacity := capacity / numShards
	if shardCapacity < 1 {
		shardCapacity = 1
	}

	s := &Sharded{seed: maphash.MakeSeed()}
	for i := range s.shards {
		s.shards[i] = NewLRU(shardCapacity, rc)
	}
	return s
}

func (s *Sharded) shard(key Key) *LRU {
	var h maphash.Hash
	h.SetSeed(s.seed)
	_, _ = h.WriteString(key.Namespace)
	_ = h.WriteByte(0)
	_, _ = h.WriteString(key.ID)
	return s.shards[h.Sum64()%numShards]
}

// Get returns the cached blob (shared; see BlobCache).
func (s *Sharded) Get(ctx context.Context, key Key) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

// GetCopy returns a private copy of the cached blob.
func (s *Sharded) GetCopy(ctx context.Context, key Key) ([]byte, bool) {
	return s.shard(key).GetCopy(ctx, key)
}

// Set caches a blob in the shard owning the key.
func (s *Sharded) Set(ctx context.Context, key Key, blob []byte) {
	s.shard(key).Set(ctx, key, blob)
}

// Invalidate removes matching entries from every shard.
func (s *Sharded) Invalidate(predicate func(key Key) bool) {
	for _, shard := range s.shards {
		shard.Invalidate(predicate)
	}
}

// Size returns the cached bytes across all shards.
func (s *Sharded) Size() int64 {
	var total int64
	for _, shard := range s.shards {
		total += shard.Size()
	}
	return total
}

// Stats returns cumulative hit and miss counts across all shards.
func (s *Sharded) Stats() (hits, misses int64) {
	for _, shard := range s.shards {
		h, m := shard.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Close releases all entries in every shard.
func (s *Sharded) Close() error {
	for _, shard := range s.shards {
		_ = shard.Close()
	}
	return nil
}

var _ BlobCache = (*Sharded)(nil)
