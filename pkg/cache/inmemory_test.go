package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetFromCache(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("price:AAPL", 190.5, DefaultExpiration)
	c.Set("name:AAPL", "Apple Inc.", DefaultExpiration)

	price, ok := GetFromCache[float64](c, "price:AAPL")
	assert.True(t, ok)
	assert.Equal(t, 190.5, price)

	_, ok = GetFromCache[float64](c, "name:AAPL")
	assert.False(t, ok, "type mismatch must be reported as a miss")

	_, ok = GetFromCache[float64](c, "price:MSFT")
	assert.False(t, ok)

	_, ok = GetFromCache[float64](nil, "price:AAPL")
	assert.False(t, ok)
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	c.Set("short", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)

	c.Set("long", 1, NoExpiration)
	_, ok = c.Get("long")
	assert.True(t, ok)
	c.Delete("long")
	_, ok = c.Get("long")
	assert.False(t, ok)
}
