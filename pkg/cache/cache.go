// Package cache holds short-lived byte values keyed by string with a TTL.
package cache

import (
	"fmt"

	"github.com/smith3v/lingochat/pkg/config"
)

// Cache is a bounded key/value store whose entries expire after a fixed TTL.
// Get never returns expired values.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Close() error
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory, "":
		return NewMemory(cfg.Capacity, cfg.TTL()), nil
	case config.CacheBackendBolt:
		return OpenBolt(cfg.BoltPath, cfg.Capacity, cfg.TTL())
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}
