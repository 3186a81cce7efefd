package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// remoteIndex is a snapshot of the keys present in the bucket.
type remoteIndex struct {
	keys  map[string]struct{}
	built time.Time
	ttl   time.Duration
}

// isExpired returns true if this index has outlived its TTL.
func (i *remoteIndex) isExpired() bool {
	if i.ttl == 0 {
		return true // No caching
	}
	return time.Since(i.built) > i.ttl
}

// indexCache holds the latest remote index and builds a new one at most
// once at a time.
type indexCache struct {
	mu    sync.RWMutex
	index *remoteIndex
	ttl   time.Duration
	sf    singleflight.Group
}

func newIndexCache(ttl time.Duration) *indexCache {
	return &indexCache{ttl: ttl}
}

// get returns the cached key set, or loads a new one if it is missing or
// expired. Concurrent callers share a single load.
func (c *indexCache) get(ctx context.Context, load func(context.Context) (map[string]struct{}, error)) (map[string]struct{}, error) {
	c.mu.RLock()
	index := c.index
	c.mu.RUnlock()

	if index != nil && !index.isExpired() {
		return index.keys, nil
	}

	result, err, _ := c.sf.Do("remote", func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		index := c.index
		c.mu.RUnlock()
		if index != nil && !index.isExpired() {
			return index.keys, nil
		}

		keys, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.index = &remoteIndex{keys: keys, built: time.Now(), ttl: c.ttl}
		c.mu.Unlock()
		return keys, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(map[string]struct{}), nil
}

// invalidate drops the cached index. Every transition that writes to the
// bucket calls it.
func (c *indexCache) invalidate() {
	c.mu.Lock()
	c.index = nil
	c.mu.Unlock()
}
