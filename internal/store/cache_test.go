package store

import (
	"sync"
	"testing"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := NewCache()

	c.Put(lifecycle.EntityPayment, &domain.Payment{ID: 2, Status: domain.ReviewStatusPending})
	c.Put(lifecycle.EntityPayment, &domain.Payment{ID: 1, Status: domain.ReviewStatusPending})
	c.Put(lifecycle.EntityClaim, &domain.Claim{ID: 1, Status: domain.ReviewStatusPending})
	c.Put(lifecycle.EntityClaim, nil)

	assert.Equal(t, 3, c.Len())

	v, ok := c.Get(lifecycle.EntityPayment, 1)
	assert.True(t, ok)
	assert.Equal(t, "pending", v.CurrentStatus())

	_, ok = c.Get(lifecycle.EntityDocument, 1)
	assert.False(t, ok)

	list := c.List(lifecycle.EntityPayment)
	assert.Len(t, list, 2)
	assert.Equal(t, int32(1), list[0].EntityID())

	c.Replace(lifecycle.EntityPayment, []domain.Reviewable{&domain.Payment{ID: 9}})
	assert.Len(t, c.List(lifecycle.EntityPayment), 1)
	assert.Len(t, c.List(lifecycle.EntityClaim), 1)

	c.Delete(lifecycle.EntityClaim, 1)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := int32(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int32) {
			defer wg.Done()
			c.Put(lifecycle.EntityUser, &domain.User{ID: id})
			c.Get(lifecycle.EntityUser, id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}
