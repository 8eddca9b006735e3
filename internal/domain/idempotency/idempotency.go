// Package idempotency remembers the first successful response for an
// Idempotency-Key so replays do not re-run a mutation.
package idempotency

import (
	"context"
	"sync"
	"sync/atomic"
)

// Response is a stored mutation result.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Cache records responses by key.
type Cache interface {
	// Lookup returns the stored response for key, if any.
	Lookup(ctx context.Context, key string) (Response, bool)

	// Store records resp for key unless the key is already present.
	// Returns false if an earlier response was kept.
	Store(ctx context.Context, key string, resp Response) bool

	Size() int64
}

// node represents a single entry in the linked list
type node struct {
	key  string
	resp Response
	prev *node
	next *node
}

func (n *node) reset() {
	n.key = ""
	n.resp = Response{}
	n.prev = nil
	n.next = nil
}

// inMemoryCache keeps entries in a map plus a doubly linked list with the
// newest entry at the head. When full, the tail (oldest) is evicted.
// maxSize <= 0 means unbounded.
type inMemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]*node
	head     *node
	tail     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryCache creates a cache with configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

func (c *inMemoryCache) Lookup(_ context.Context, key string) (Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.entries[key]
	if !ok {
		return Response{}, false
	}
	return cloneResponse(n.resp), true
}

func (c *inMemoryCache) Store(_ context.Context, key string, resp Response) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return false
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.resp = cloneResponse(resp)
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	} else {
		c.tail = n
	}
	c.head = n
	c.entries[key] = n
	c.size.Add(1)
	return true
}

// evictOldest removes the tail of the list.
// Must be called with c.mu.Lock() held.
func (c *inMemoryCache) evictOldest() {
	oldest := c.tail
	if oldest == nil {
		return
	}
	c.tail = oldest.prev
	if c.tail != nil {
		c.tail.next = nil
	} else {
		c.head = nil
	}
	delete(c.entries, oldest.key)
	oldest.reset()
	c.nodePool.Put(oldest)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}

func cloneResponse(r Response) Response {
	r.Body = append([]byte(nil), r.Body...)
	return r
}
