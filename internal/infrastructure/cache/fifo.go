package cache

import (
	"container/list"
	"sync"

	"mcp-agent/internal/application/port/output"
	"mcp-agent/internal/domain/entity"
)

var _ output.SnapshotCache = (*FIFO)(nil)

const DefaultCapacity = 50

// FIFO is a bounded cache that evicts the oldest insertion. Overwriting an
// existing key keeps its original position.
type FIFO struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

type fifoEntry struct {
	key   string
	value entity.SnapshotResult
}

func NewFIFO(capacity int) *FIFO {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FIFO{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *FIFO) Get(key string) (entity.SnapshotResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return entity.SnapshotResult{}, false
	}
	return el.Value.(*fifoEntry).value, true
}

func (c *FIFO) Put(key string, value entity.SnapshotResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*fifoEntry).value = value
		return
	}
	c.items[key] = c.order.PushBack(&fifoEntry{key: key, value: value})
	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*fifoEntry).key)
	}
}

func (c *FIFO) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
