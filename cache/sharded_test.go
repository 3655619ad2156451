package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharded_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewSharded(1<<20, nil)
	defer c.Close()

	for i := 0; i < 100; i++ {
		key := Key{Namespace: "nodes", ID: fmt.Sprintf("%d", i)}
		c.Set(ctx, key, []byte(key.ID))
	}

	for i := 0; i < 100; i++ {
		key := Key{Namespace: "nodes", ID: fmt.Sprintf("%d", i)}
		got, ok := c.Get(ctx, key)
		require.True(t, ok)
		require.Equal(t, []byte(key.ID), got)
	}
}

func TestSharded_InvalidateFansOut(t *testing.T) {
	ctx := context.Background()
	c := NewSharded(1<<20, nil)
	defer c.Close()

	for i := 0; i < 64; i++ {
		c.Set(ctx, Key{Namespace: "a", ID: fmt.Sprintf("%d", i)}, []byte("x"))
		c.Set(ctx, Key{Namespace: "b", ID: fmt.Sprintf("%d", i)}, []byte("y"))
	}

	c.Invalidate(func(key Key) bool { return key.Namespace == "a" })

	for i := 0; i < 64; i++ {
		_, ok := c.Get(ctx, Key{Namespace: "a", ID: fmt.Sprintf("%d", i)})
		require.False(t, ok)
		_, ok = c.Get(ctx, Key{Namespace: "b", ID: fmt.Sprintf("%d", i)})
		require.True(t, ok)
	}
	require.Equal(t, int64(64), c.Size())
}

func TestSharded_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewSharded(1<<20, nil)
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := Key{Namespace: "n", ID: fmt.Sprintf("%d-%d", g, i)}
				c.Set(ctx, key, []byte(key.ID))
				got, ok := c.Get(ctx, key)
				if !ok || string(got) != key.ID {
					t.Errorf("lost blob for %v", key)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestSharded_StatsAggregate(t *testing.T) {
	ctx := context.Background()
	c := NewSharded(1<<20, nil)
	defer c.Close()

	key := Key{Namespace: "n", ID: "a"}
	c.Set(ctx, key, []byte("x"))
	c.Get(ctx, key)
	c.Get(ctx, Key{Namespace: "n", ID: "missing"})

	hits, misses := c.Stats()
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(1), misses)
}

func TestSharded_MinimumShardCapacity(t *testing.T) {
	ctx := context.Background()
	c := NewSharded(4, nil) // below numShards
	defer c.Close()

	key := Key{Namespace: "n", ID: "a"}
	c.Set(ctx, key, []byte("x"))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Equal(t, []byte("x"), got)
}
