// Package store keeps the client's view of entities confirmed by the server.
package store

import (
	"sort"
	"sync"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
)

type key struct {
	entity lifecycle.Entity
	id     int32
}

// Cache is safe for concurrent use. Entries are only written with server responses.
type Cache struct {
	mu    sync.RWMutex
	items map[key]domain.Reviewable
}

func NewCache() *Cache {
	return &Cache{items: make(map[key]domain.Reviewable)}
}

func (c *Cache) Get(entity lifecycle.Entity, id int32) (domain.Reviewable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key{entity, id}]
	return v, ok
}

func (c *Cache) Put(entity lifecycle.Entity, v domain.Reviewable) {
	if v == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key{entity, v.EntityID()}] = v
}

// Replace drops every cached entity of the given kind and stores vs instead.
func (c *Cache) Replace(entity lifecycle.Entity, vs []domain.Reviewable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if k.entity == entity {
			delete(c.items, k)
		}
	}
	for _, v := range vs {
		c.items[key{entity, v.EntityID()}] = v
	}
}

func (c *Cache) Delete(entity lifecycle.Entity, id int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key{entity, id})
}

// List returns the cached entities of a kind ordered by id.
func (c *Cache) List(entity lifecycle.Entity) []domain.Reviewable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []domain.Reviewable{}
	for k, v := range c.items {
		if k.entity == entity {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID() < out[j].EntityID() })
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[key]domain.Reviewable)
}
