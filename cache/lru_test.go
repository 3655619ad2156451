package cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/flatpack/resource"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(1024, nil)
	defer c.Close()

	key := Key{Namespace: "nodes", ID: "a"}
	blob := []byte("serialized")

	_, ok := c.Get(ctx, key)
	require.False(t, ok)

	c.Set(ctx, key, blob)

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Equal(t, blob, got)
	require.Equal(t, int64(len(blob)), c.Size())
}

func TestLRU_GetCopyIsPrivate(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(1024, nil)
	defer c.Close()

	key := Key{Namespace: "nodes", ID: "a"}
	c.Set(ctx, key, []byte("abc"))

	cp, ok := c.GetCopy(ctx, key)
	require.True(t, ok)
	cp[0] = 'x'

	shared, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Equal(t, []byte("abc"), shared)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(30, nil)
	defer c.Close()

	keyA := Key{Namespace: "n", ID: "a"}
	keyB := Key{Namespace: "n", ID: "b"}
	keyC := Key{Namespace: "n", ID: "c"}

	c.Set(ctx, keyA, make([]byte, 10))
	c.Set(ctx, keyB, make([]byte, 10))
	c.Set(ctx, keyC, make([]byte, 10))

	// Touch a so b becomes the eviction candidate.
	_, ok := c.Get(ctx, keyA)
	require.True(t, ok)

	c.Set(ctx, Key{Namespace: "n", ID: "d"}, make([]byte, 10))

	_, ok = c.Get(ctx, keyB)
	require.False(t, ok)
	_, ok = c.Get(ctx, keyA)
	require.True(t, ok)
	require.LessOrEqual(t, c.Size(), int64(30))
}

func TestLRU_OversizedBlobRejected(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(8, nil)
	defer c.Close()

	key := Key{Namespace: "n", ID: "big"}
	c.Set(ctx, key, make([]byte, 64))

	_, ok := c.Get(ctx, key)
	require.False(t, ok)
	require.Zero(t, c.Size())
}

func TestLRU_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(1024, nil)
	defer c.Close()

	c.Set(ctx, Key{Namespace: "nodes", ID: "a"}, []byte("1"))
	c.Set(ctx, Key{Namespace: "nodes", ID: "b"}, []byte("2"))
	c.Set(ctx, Key{Namespace: "props", ID: "a"}, []byte("3"))

	c.Invalidate(func(key Key) bool { return key.Namespace == "nodes" })

	_, ok := c.Get(ctx, Key{Namespace: "nodes", ID: "a"})
	require.False(t, ok)
	_, ok = c.Get(ctx, Key{Namespace: "props", ID: "a"})
	require.True(t, ok)
	require.Equal(t, int64(1), c.Size())
}

func TestLRU_Stats(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(1024, nil)
	defer c.Close()

	key := Key{Namespace: "n", ID: "a"}
	c.Set(ctx, key, []byte("x"))

	c.Get(ctx, key)
	c.Get(ctx, Key{Namespace: "n", ID: "missing"})

	hits, misses := c.Stats()
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(1), misses)
}

func TestLRU_ResourceAccounting(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024})
	c := NewLRU(1024, rc)

	c.Set(ctx, Key{Namespace: "n", ID: "a"}, make([]byte, 100))
	require.Equal(t, int64(100), rc.MemoryUsage())

	c.Invalidate(func(Key) bool { return true })
	require.Zero(t, rc.MemoryUsage())

	c.Set(ctx, Key{Namespace: "n", ID: "b"}, make([]byte, 50))
	require.NoError(t, c.Close())
	require.Zero(t, rc.MemoryUsage())
}

func TestLRU_UpdateReplacesEntry(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(1024, nil)
	defer c.Close()

	key := Key{Namespace: "n", ID: "a"}
	c.Set(ctx, key, make([]byte, 10))
	c.Set(ctx, key, make([]byte, 4))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Len(t, got, 4)
	require.Equal(t, int64(4), c.Size())
}

func BenchmarkLRU_Get(b *testing.B) {
	ctx := context.Background()
	c := NewLRU(1<<20, nil)
	defer c.Close()

	for i := 0; i < 256; i++ {
		c.Set(ctx, Key{Namespace: "n", ID: fmt.Sprintf("%d", i)}, make([]byte, 128))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ctx, Key{Namespace: "n", ID: fmt.Sprintf("%d", i%256)})
	}
}
