package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/smith3v/lingochat/pkg/logger"
	bolt "go.etcd.io/bbolt"
)

const DefaultSweepInterval = time.Hour

var entriesBucket = []byte("entries")

type boltEntry struct {
	ExpiresAt time.Time `json:"expires_at"`
	Value     []byte    `json:"value"`
}

// Bolt persists entries in a bbolt file so they survive restarts.
// Expired entries are hidden from Get and removed by Sweep. Once capacity
// entries are stored, Set makes room by dropping expired entries and then
// the ones closest to expiry.
type Bolt struct {
	db       *bolt.DB
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu    sync.Mutex // guards count across write transactions
	count int
}

// OpenBolt opens or creates the cache file. A capacity of zero or less
// leaves the size bounded only by the TTL.
func OpenBolt(path string, capacity int, ttl time.Duration) (*Bolt, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache file %s: %w", path, err)
	}
	count := 0
	err = db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(entriesBucket)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(_, _ []byte) error {
			count++
			return nil
		})
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Bolt{db: db, ttl: ttl, capacity: capacity, now: time.Now, count: count}, nil
}

func (b *Bolt) Get(key string) ([]byte, bool) {
	var entry boltEntry
	found := false
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(entriesBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			// Malformed entries read as misses.
			return nil
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false
	}
	if !b.now().Before(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Value, true
}

func (b *Bolt) Set(key string, value []byte) error {
	now := b.now()
	enc, err := json.Marshal(boltEntry{ExpiresAt: now.Add(b.ttl).UTC(), Value: value})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.count
	err = b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(entriesBucket)
		if bucket.Get([]byte(key)) == nil {
			if b.capacity > 0 && count >= b.capacity {
				evicted, err := b.evict(bucket, now)
				if err != nil {
					return err
				}
				count -= evicted
			}
			count++
		}
		return bucket.Put([]byte(key), enc)
	})
	if err != nil {
		return err
	}
	b.count = count
	return nil
}

// Len reports how many entries are stored, expired ones included.
func (b *Bolt) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

type expiringKey struct {
	key       []byte
	expiresAt time.Time
}

// evict removes every expired entry. If none had expired it removes a tenth
// of the capacity (at least one entry), nearest expiry first.
func (b *Bolt) evict(bucket *bolt.Bucket, now time.Time) (int, error) {
	var stale [][]byte
	var live []expiringKey
	err := bucket.ForEach(func(k, v []byte) error {
		var entry boltEntry
		key := append([]byte(nil), k...)
		if err := json.Unmarshal(v, &entry); err != nil || !now.Before(entry.ExpiresAt) {
			stale = append(stale, key)
			return nil
		}
		live = append(live, expiringKey{key: key, expiresAt: entry.ExpiresAt})
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(stale) == 0 {
		slices.SortFunc(live, func(x, y expiringKey) int { return x.expiresAt.Compare(y.expiresAt) })
		n := max(1, b.capacity/10)
		for _, e := range live[:min(n, len(live))] {
			stale = append(stale, e.key)
		}
	}
	for _, k := range stale {
		if err := bucket.Delete(k); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// Sweep deletes every entry that has expired at now and reports how many were removed.
func (b *Bolt) Sweep(now time.Time) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(entriesBucket)
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var entry boltEntry
			if err := json.Unmarshal(v, &entry); err != nil || !now.Before(entry.ExpiresAt) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, err
	}
	b.count -= removed
	return removed, nil
}

// StartSweeper runs Sweep on every tick until ctx is done.
func (b *Bolt) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := b.Sweep(b.now())
			if err != nil {
				logger.Error("failed to sweep translation cache", "error", err)
				continue
			}
			if removed > 0 {
				logger.Debug("swept translation cache", "removed", removed)
			}
		}
	}
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
