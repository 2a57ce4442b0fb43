package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute)
	c.SetTTL("k", "v", -time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", 1)
	c.Delete("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set("config:fee", 20)
	c.Set("config:limit", 5)
	c.Set("customer:abc", "cus_1")

	c.InvalidatePrefix("config:")

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("customer:abc")
	assert.True(t, ok)
}
