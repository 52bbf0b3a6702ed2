package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/smith3v/lingochat/pkg/config"
)

func TestMemoryEvictsOldestBeyondCapacity(t *testing.T) {
	c := NewMemory(2, time.Hour)
	defer c.Close()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(k, []byte(k)); err != nil {
			t.Fatalf("Set(%q) failed: %v", k, err)
		}
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected oldest key to be evicted")
	}
	if v, ok := c.Get("c"); !ok || string(v) != "c" {
		t.Fatalf("expected newest key to be present, got %q, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestMemoryExpires(t *testing.T) {
	c := NewMemory(10, 20*time.Millisecond)
	defer c.Close()

	if err := c.Set("hola", []byte("hello")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("hola"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func openTestBolt(t *testing.T, capacity int, ttl time.Duration) *Bolt {
	t.Helper()
	b, err := OpenBolt(filepath.Join(t.TempDir(), "cache", "test.bolt"), capacity, ttl)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBoltRoundTripAndExpiry(t *testing.T) {
	b := openTestBolt(t, 0, time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Set("casa|es|en", []byte(`{"word":"house"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := b.Get("casa|es|en"); !ok || string(v) != `{"word":"house"}` {
		t.Fatalf("unexpected Get result %q, %v", v, ok)
	}
	if _, ok := b.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	now = now.Add(time.Hour)
	if _, ok := b.Get("casa|es|en"); ok {
		t.Fatalf("expected entry to be expired at its deadline")
	}
}

func TestBoltSweepRemovesOnlyExpired(t *testing.T) {
	b := openTestBolt(t, 0, time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Set("old", []byte("1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if err := b.Set("fresh", []byte("2")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	removed, err := b.Sweep(now.Add(45 * time.Minute))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed entry, got %d", removed)
	}
	if _, ok := b.Get("fresh"); !ok {
		t.Fatalf("expected fresh entry to survive the sweep")
	}
}

func TestBoltEvictsBeyondCapacity(t *testing.T) {
	b := openTestBolt(t, 2, time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		if err := b.Set(k, []byte(k)); err != nil {
			t.Fatalf("Set(%q) failed: %v", k, err)
		}
		now = now.Add(time.Minute)
	}
	if _, ok := b.Get("a"); ok {
		t.Fatalf("expected oldest key to be evicted")
	}
	for _, k := range []string{"b", "c"} {
		if v, ok := b.Get(k); !ok || string(v) != k {
			t.Fatalf("expected %q to be present, got %q, %v", k, v, ok)
		}
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", b.Len())
	}

	// Overwriting a stored key does not evict anything.
	if err := b.Set("c", []byte("c2")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := b.Get("b"); !ok || b.Len() != 2 {
		t.Fatalf("expected overwrite to keep both entries, len %d", b.Len())
	}
}

func TestBoltPrefersExpiredEntriesWhenFull(t *testing.T) {
	b := openTestBolt(t, 2, time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Set("stale", []byte("1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	now = now.Add(50 * time.Minute)
	if err := b.Set("kept", []byte("2")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	now = now.Add(20 * time.Minute)
	if err := b.Set("new", []byte("3")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, ok := b.Get("kept"); !ok {
		t.Fatalf("expected live entry to survive while an expired one could be dropped")
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", b.Len())
	}
}

func TestBoltCountSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.bolt")
	b, err := OpenBolt(path, 10, time.Hour)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := b.Set(k, []byte(k)); err != nil {
			t.Fatalf("Set(%q) failed: %v", k, err)
		}
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err = OpenBolt(path, 10, time.Hour)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	defer b.Close()
	if b.Len() != 3 {
		t.Fatalf("expected 3 entries after reopen, got %d", b.Len())
	}
}

func TestNewSelectsBackend(t *testing.T) {
	mem, err := New(config.CacheConfig{Backend: config.CacheBackendMemory, Capacity: 4, TTLMinutes: 1})
	if err != nil {
		t.Fatalf("New(memory) failed: %v", err)
	}
	if _, ok := mem.(*Memory); !ok {
		t.Fatalf("expected *Memory, got %T", mem)
	}
	_ = mem.Close()

	bolt, err := New(config.CacheConfig{Backend: config.CacheBackendBolt, BoltPath: filepath.Join(t.TempDir(), "c.bolt"), TTLMinutes: 1})
	if err != nil {
		t.Fatalf("New(bolt) failed: %v", err)
	}
	if _, ok := bolt.(*Bolt); !ok {
		t.Fatalf("expected *Bolt, got %T", bolt)
	}
	_ = bolt.Close()

	if _, err := New(config.CacheConfig{Backend: "redis"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
