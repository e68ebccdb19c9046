package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key([]byte("group: acme\nedges: []\n"))
	b := Key([]byte("group: acme\nedges: []\n"))
	c := Key([]byte("group: other\nedges: []\n"))

	if a != b {
		t.Error("expected identical input to produce identical keys")
	}
	if a == c {
		t.Error("expected different input to produce different keys")
	}
	if !strings.HasPrefix(a, "holdgraph:v1:") {
		t.Errorf("expected versioned prefix, got %q", a)
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("key")
	if !found || string(val) != "value" {
		t.Errorf("expected hit with value, got %q found=%v", val, found)
	}

	if err := c.Delete("key"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_SetGet(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("key")
	if !found || string(val) != "value" {
		t.Errorf("expected hit with value, got %q found=%v", val, found)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("key", []byte("value"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCache_Clear(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)

	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("expected miss after clear")
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Minute)

	// Seed only the disk layer, then read through the layered cache
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	val, found := layered.Get("key")
	if !found || string(val) != "value" {
		t.Fatalf("expected disk hit through layered cache, got %q found=%v", val, found)
	}

	// The entry should now also be served by the memory layer
	if _, found := layered.memory.Get("key"); !found {
		t.Error("expected promotion to memory layer")
	}
}
