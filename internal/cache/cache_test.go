package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGetExpire(t *testing.T) {
	c := New(time.Minute, 0)
	defer c.Close()

	c.Set("categories", []string{"Shoes"})
	v, ok := c.Get("categories")
	assert.True(t, ok)
	assert.Equal(t, []string{"Shoes"}, v)

	c.Set("short", 1, -time.Second)
	_, ok = c.Get("short")
	assert.False(t, ok)

	c.purge()
	assert.Equal(t, 1, c.Size())
}

func TestCache_DeleteByPrefix(t *testing.T) {
	c := New(time.Minute, 0)
	defer c.Close()

	c.Set("products:categories", 1)
	c.Set("products:count", 2)
	c.Set("other", 3)

	c.DeleteByPrefix("products:")
	assert.Equal(t, 1, c.Size())

	c.Delete("other")
	assert.Equal(t, 0, c.Size())
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New(time.Minute, 10*time.Millisecond)
	c.Close()
	c.Close()
}
