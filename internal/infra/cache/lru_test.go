//go:build !integration

package cache_test

import (
	"fmt"
	"testing"

	"telegram-look-bot/internal/infra/cache"
)

func TestLRU(t *testing.T) {
	t.Run("get returns what was put", func(t *testing.T) {
		c := cache.NewLRU(4)
		c.Put("a", "1")
		if v, ok := c.Get("a"); !ok || v != "1" {
			t.Errorf("expected (1,true), got (%q,%v)", v, ok)
		}
		if _, ok := c.Get("missing"); ok {
			t.Error("expected miss for unknown key")
		}
	})

	t.Run("put updates an existing key", func(t *testing.T) {
		c := cache.NewLRU(4)
		c.Put("a", "1")
		c.Put("a", "2")
		if v, _ := c.Get("a"); v != "2" {
			t.Errorf("expected updated value, got %q", v)
		}
		if c.Len() != 1 {
			t.Errorf("expected len 1, got %d", c.Len())
		}
	})

	t.Run("oldest entry is evicted at capacity", func(t *testing.T) {
		c := cache.NewLRU(2)
		c.Put("a", "1")
		c.Put("b", "2")
		c.Put("c", "3")
		if _, ok := c.Get("a"); ok {
			t.Error("expected oldest entry to be evicted")
		}
		if _, ok := c.Get("b"); !ok {
			t.Error("entry b should survive")
		}
		if _, ok := c.Get("c"); !ok {
			t.Error("entry c should survive")
		}
	})

	t.Run("get refreshes recency", func(t *testing.T) {
		c := cache.NewLRU(2)
		c.Put("a", "1")
		c.Put("b", "2")
		c.Get("a") // a becomes most recent
		c.Put("c", "3")
		if _, ok := c.Get("a"); !ok {
			t.Error("recently used entry was evicted")
		}
		if _, ok := c.Get("b"); ok {
			t.Error("least recently used entry should be evicted")
		}
	})

	t.Run("capacity is bounded under churn", func(t *testing.T) {
		c := cache.NewLRU(10)
		for i := 0; i < 100; i++ {
			c.Put(fmt.Sprintf("k%d", i), "v")
		}
		if c.Len() != 10 {
			t.Errorf("expected len 10, got %d", c.Len())
		}
	})
}
