package cache

import (
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string](1 * time.Second)
	defer c.Close()

	c.Set("key1", "value1")

	val, found := c.Get("key1")
	if !found {
		t.Error("Expected to find key1")
	}
	if val != "value1" {
		t.Errorf("Expected value1, got %v", val)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New[int](100 * time.Millisecond)
	defer c.Close()

	c.Set("key1", 1)

	// Should exist immediately
	_, found := c.Get("key1")
	if !found {
		t.Error("Expected to find key1 immediately")
	}

	// Wait for expiration
	time.Sleep(150 * time.Millisecond)

	_, found = c.Get("key1")
	if found {
		t.Error("Expected key1 to be expired")
	}
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := New[string](0)
	defer c.Close()

	c.Set("key1", "value1")
	c.sweep(time.Now().Add(24 * time.Hour))

	if _, found := c.Get("key1"); !found {
		t.Error("Expected key1 without TTL to survive cleanup")
	}
}

func TestCache_SweepRemovesExpired(t *testing.T) {
	c := New[string](time.Minute)
	defer c.Close()

	c.SetWithTTL("short", "a", time.Millisecond)
	c.SetWithTTL("long", "b", time.Hour)
	c.sweep(time.Now().Add(time.Second))

	if _, ok := c.store.Load("short"); ok {
		t.Error("Expected short-lived entry to be swept")
	}
	if _, ok := c.store.Load("long"); !ok {
		t.Error("Expected long-lived entry to remain")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[string](1 * time.Second)
	defer c.Close()

	c.Set("key1", "value1")
	c.Clear("key1")

	_, found := c.Get("key1")
	if found {
		t.Error("Expected key1 to be cleared")
	}
}

func TestCache_CloseTwice(t *testing.T) {
	c := New[string](time.Second)
	c.Close()
	c.Close()
}

func TestCache_WithClock(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	c := New[string](time.Hour).WithClock(func() time.Time { return now })
	defer c.Close()

	c.Set("key1", "value1")

	now = now.Add(59 * time.Minute)
	if _, found := c.Get("key1"); !found {
		t.Error("Expected key1 before the hour is up")
	}

	now = now.Add(2 * time.Minute)
	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to expire on the injected clock")
	}
}
