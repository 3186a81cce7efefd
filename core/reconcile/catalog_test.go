package reconcile

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var errFakeNotFound = errors.New("not found")

// fakeCatalog is an in-memory Catalog. Content holds the documents whose
// references ReplaceURL rewrites.
type fakeCatalog struct {
	mu      sync.Mutex
	assets  map[uint64]Asset
	content    []string
	listErr    error
	replaceErr error
}

func newFakeCatalog(assets ...Asset) *fakeCatalog {
	c := &fakeCatalog{assets: make(map[uint64]Asset)}
	for _, a := range assets {
		c.assets[a.ID] = a
	}
	return c
}

func (c *fakeCatalog) ListAssets(_ context.Context, filter Filter) ([]Asset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	var out []Asset
	for _, a := range c.assets {
		switch {
		case filter == FilterLocal && a.Offloaded(),
			filter == FilterOffloaded && !a.Offloaded():
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *fakeCatalog) GetAsset(_ context.Context, id uint64) (*Asset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.assets[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return &a, nil
}

func (c *fakeCatalog) SetOffloadURL(_ context.Context, id uint64, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.assets[id]
	a.OffloadURL = url
	c.assets[id] = a
	return nil
}

func (c *fakeCatalog) DeleteOffloadURL(_ context.Context, id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.assets[id]
	a.OffloadURL = ""
	c.assets[id] = a
	return nil
}

func (c *fakeCatalog) ReplaceURL(_ context.Context, oldURL, newURL string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.replaceErr != nil {
		return 0, c.replaceErr
	}
	var n int64
	for i, doc := range c.content {
		if strings.Contains(doc, oldURL) {
			c.content[i] = strings.ReplaceAll(doc, oldURL, newURL)
			n++
		}
	}
	return n, nil
}

func (c *fakeCatalog) asset(id uint64) Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assets[id]
}
