package render

import (
	"container/list"
	"sync"

	"github.com/mitchellh/hashstructure/v2"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheSize = 64

// Cache memoizes rendered documents by content. Documents are shared between
// callers and must be treated as read-only.
type Cache struct {
	mu      sync.Mutex
	size    int
	entries map[uint64]*list.Element
	order   *list.List // front is most recently used
	group   singleflight.Group

	hits, misses uint64
}

type cacheEntry struct {
	key     uint64
	content string
	doc     *Document
}

func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{size: size, entries: make(map[uint64]*list.Element), order: list.New()}
}

// Key hashes content for use as a cache key.
func Key(content string) uint64 {
	h, err := hashstructure.Hash(content, hashstructure.FormatV2, nil)
	if err != nil {
		// Strings always hash; keep the zero key for the impossible case.
		return 0
	}
	return h
}

func (c *Cache) Get(content string) (*Document, bool) {
	key := Key(content)
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok || el.Value.(*cacheEntry).content != content {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).doc, true
}

func (c *Cache) Put(content string, doc *Document) {
	if doc == nil {
		return
	}
	key := Key(content)
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value = &cacheEntry{key: key, content: content, doc: doc}
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, content: content, doc: doc})
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Render returns the cached document for content, rendering it with r on a
// miss. Concurrent misses for the same content share one render.
func (c *Cache) Render(r *Renderer, content string) *Document {
	if doc, ok := c.Get(content); ok {
		return doc
	}
	v, _, _ := c.group.Do(content, func() (any, error) {
		if doc, ok := c.Get(content); ok {
			return doc, nil
		}
		doc := r.Render(content)
		c.Put(content, doc)
		return doc, nil
	})
	return v.(*Document)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
