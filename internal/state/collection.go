// Package state holds the in-memory copy of every collection. It is the
// source of truth for reads and is patched after each confirmed remote write.
package state

import (
	"sync"

	"cuaderno/internal/model"
)

// Collection is an ordered, concurrency-safe list of entities.
type Collection[T model.Entity] struct {
	mu    sync.RWMutex
	items []T
}

func NewCollection[T model.Entity]() *Collection[T] {
	return &Collection[T]{}
}

// All returns a copy of the items in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Replace swaps the whole collection.
func (c *Collection[T]) Replace(items []T) {
	out := make([]T, len(items))
	copy(out, items)
	c.mu.Lock()
	c.items = out
	c.mu.Unlock()
}

func (c *Collection[T]) Append(items ...T) {
	c.mu.Lock()
	c.items = append(c.items, items...)
	c.mu.Unlock()
}

// ReplaceByID swaps the entry sharing item's id. It reports false when no
// entry matched.
func (c *Collection[T]) ReplaceByID(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.EntityID() == item.EntityID() {
			c.items[i] = item
			return true
		}
	}
	return false
}

// Remove drops the entry with the given id.
func (c *Collection[T]) Remove(id string) {
	c.RemoveWhere(func(it T) bool { return it.EntityID() == id })
}

// RemoveWhere drops every entry matching pred and returns how many were removed.
func (c *Collection[T]) RemoveWhere(pred func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if !pred(it) {
			kept = append(kept, it)
		}
	}
	removed := len(c.items) - len(kept)
	c.items = kept
	return removed
}
