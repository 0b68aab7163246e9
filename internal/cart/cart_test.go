package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foodbooking/internal/cart"
)

func TestCartAddAndCount(t *testing.T) {
	c := cart.Cart{}

	assert.Equal(t, 1, c.Add(10))
	assert.Equal(t, 2, c.Add(10))
	assert.Equal(t, 1, c.Add(11))
	assert.Equal(t, 3, c.Count())
}

func TestCartSetRemovesAtZero(t *testing.T) {
	c := cart.Cart{10: 2, 11: 1}

	c.Set(10, 5)
	assert.Equal(t, 5, c[10])

	c.Set(10, 0)
	_, exists := c[10]
	assert.False(t, exists)

	c.Set(11, -3)
	_, exists = c[11]
	assert.False(t, exists)
	assert.Equal(t, 0, c.Count())
}

func TestCartRemoveMissingIsNoop(t *testing.T) {
	c := cart.Cart{10: 2}
	c.Remove(99)
	assert.Equal(t, 2, c.Count())
}

func TestCartIDsSorted(t *testing.T) {
	c := cart.Cart{30: 1, 10: 2, 20: 3}
	assert.Equal(t, []int64{10, 20, 30}, c.IDs())
}
