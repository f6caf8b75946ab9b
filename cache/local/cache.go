package local

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a key or member does not exist.
var ErrNotFound = errors.New("cache: key not found")

// ZEntry is one sorted-set member.
type ZEntry struct {
	Member string
	Score  float64
}

type zset struct {
	mu      sync.Mutex
	entries []ZEntry // sorted by score descending, ties by insertion
}

// LocalCache is an in-process sorted-set store used when no Redis address
// is configured.
type LocalCache struct {
	zsets sync.Map // key → *zset
}

// NewCache creates an empty LocalCache.
func NewCache() *LocalCache {
	return &LocalCache{}
}

func (c *LocalCache) getOrCreateZSet(key string) *zset {
	v, _ := c.zsets.LoadOrStore(key, &zset{})
	return v.(*zset)
}

func (c *LocalCache) ZAdd(_ context.Context, key string, score float64, member string) error {
	z := c.getOrCreateZSet(key)
	z.mu.Lock()
	defer z.mu.Unlock()
	for i, e := range z.entries {
		if e.Member == member {
			z.entries = append(z.entries[:i], z.entries[i+1:]...)
			break
		}
	}
	z.entries = append(z.entries, ZEntry{Member: member, Score: score})
	sort.SliceStable(z.entries, func(a, b int) bool { return z.entries[a].Score > z.entries[b].Score })
	return nil
}

func (c *LocalCache) ZRevRangeWithScores(_ context.Context, key string, start, stop int64) ([]ZEntry, error) {
	z := c.getOrCreateZSet(key)
	z.mu.Lock()
	defer z.mu.Unlock()
	n := int64(len(z.entries))
	if start < 0 {
		start = 0
	}
	if start >= n {
		return nil, nil
	}
	if stop < 0 || stop >= n {
		stop = n - 1
	}
	result := make([]ZEntry, 0, stop-start+1)
	result = append(result, z.entries[start:stop+1]...)
	return result, nil
}

func (c *LocalCache) ZScore(_ context.Context, key, member string) (float64, error) {
	z := c.getOrCreateZSet(key)
	z.mu.Lock()
	defer z.mu.Unlock()
	for _, e := range z.entries {
		if e.Member == member {
			return e.Score, nil
		}
	}
	return 0, ErrNotFound
}

// ZKeepTop keeps only the keep highest-scored members.
func (c *LocalCache) ZKeepTop(_ context.Context, key string, keep int64) error {
	z := c.getOrCreateZSet(key)
	z.mu.Lock()
	defer z.mu.Unlock()
	if keep < 0 {
		keep = 0
	}
	if int64(len(z.entries)) > keep {
		z.entries = z.entries[:keep]
	}
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.zsets.Delete(k)
	}
	return nil
}

// Close is a no-op; it lets LocalCache stand in wherever a Redis client would.
func (c *LocalCache) Close() error { return nil }
