package apitest

import (
	"sync"

	"github.com/talkincode/toughinvoice/internal/domain"
)

// collection keeps records in insertion order, unique by key.
type collection[T domain.Entity] struct {
	mu    sync.Mutex
	items []T
}

func newCollection[T domain.Entity]() *collection[T] {
	return &collection[T]{items: make([]T, 0)}
}

func (c *collection[T]) seed(items []T) {
	for _, item := range items {
		c.insert(item)
	}
}

func (c *collection[T]) list() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[T]) indexOf(id string) int {
	for i, item := range c.items {
		if item.Key() == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) insert(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(item.Key()) >= 0 {
		return false
	}
	c.items = append(c.items, item)
	return true
}

func (c *collection[T]) replace(id string, item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items[i] = item
	return true
}

func (c *collection[T]) remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}
