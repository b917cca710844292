package templates

import (
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cached is a read-through cache in front of a Store. Concurrent first loads
// of one name share a single read. Failures are not cached.
type Cached struct {
	next  Store
	group singleflight.Group

	mu    sync.RWMutex
	items map[string]Template
}

// NewCached wraps next.
func NewCached(next Store) *Cached {
	return &Cached{next: next, items: make(map[string]Template)}
}

// Get returns the template name, loading it on first use.
func (c *Cached) Get(name string) (Template, error) {
	c.mu.RLock()
	tpl, ok := c.items[name]
	c.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		tpl, err := Load(c.next, name)
		if err != nil {
			return Template{}, err
		}
		c.mu.Lock()
		c.items[name] = tpl
		c.mu.Unlock()
		return tpl, nil
	})
	if err != nil {
		return Template{}, err
	}
	return v.(Template), nil
}

// Open implements Store.
func (c *Cached) Open(name string) (io.ReadCloser, error) {
	tpl, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(tpl.Text)), nil
}

// Len reports the number of cached templates.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
