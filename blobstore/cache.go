package blobstore

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/kerngo/resource"
)

// blockKey identifies one fixed-size block of a named blob.
type blockKey struct {
	name  string
	block int64
}

// BlockCache is a byte-oriented LRU cache for immutable blob blocks.
// Returned slices must be treated as read-only.
type BlockCache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[blockKey]*list.Element
	evictList *list.List
	ctrl      *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	key   blockKey
	value []byte
}

// NewBlockCache creates an LRU cache with the given capacity in bytes.
// If ctrl is non-nil, cached bytes are charged against its memory budget
// so the cache competes fairly with in-flight handle loads.
func NewBlockCache(capacity int64, ctrl *resource.Controller) *BlockCache {
	return &BlockCache{
		capacity:  capacity,
		items:     make(map[blockKey]*list.Element),
		evictList: list.New(),
		ctrl:      ctrl,
	}
}

// Get returns a cached block.
func (c *BlockCache) Get(key blockKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*cacheEntry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches a block. The caller must treat b as immutable afterwards.
func (c *BlockCache) Set(key blockKey, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		old := ent.Value.(*cacheEntry)
		oldSize, newSize := int64(len(old.value)), int64(len(b))
		if c.ctrl != nil && newSize > oldSize {
			// If the global budget denies the growth, keep the old value.
			if !c.ctrl.TryAcquireMemory(newSize - oldSize) {
				return
			}
		}
		if c.ctrl != nil && newSize < oldSize {
			c.ctrl.ReleaseMemory(oldSize - newSize)
		}
		c.size += newSize - oldSize
		old.value = b
		c.evictList.MoveToFront(ent)
		c.evictExcess()
		return
	}

	itemSize := int64(len(b))
	if itemSize > c.capacity {
		return
	}

	// Evict locally first so released memory is available before we
	// try to acquire it back from the controller.
	for c.size+itemSize > c.capacity {
		tail := c.evictList.Back()
		if tail == nil {
			break
		}
		c.removeElement(tail)
	}

	if c.ctrl != nil && !c.ctrl.TryAcquireMemory(itemSize) {
		return
	}

	elem := c.evictList.PushFront(&cacheEntry{key: key, value: b})
	c.items[key] = elem
	c.size += itemSize
}

// Invalidate removes all cached blocks of the named blob.
func (c *BlockCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, elem := range c.items {
		if key.name == name {
			toRemove = append(toRemove, elem)
		}
	}
	for _, e := range toRemove {
		c.removeElement(e)
	}
}

// Stats returns hit and miss counters.
func (c *BlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the current size of the cache in bytes.
func (c *BlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *BlockCache) evictExcess() {
	for c.size > c.capacity {
		tail := c.evictList.Back()
		if tail == nil {
			break
		}
		c.removeElement(tail)
	}
}

func (c *BlockCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*cacheEntry)
	delete(c.items, ent.key)
	c.size -= int64(len(ent.value))
	if c.ctrl != nil {
		c.ctrl.ReleaseMemory(int64(len(ent.value)))
	}
}
