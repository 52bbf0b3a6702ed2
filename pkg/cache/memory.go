package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process LRU with per-entry expiry.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemory(capacity int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []byte](capacity, nil, ttl)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	return m.lru.Get(key)
}

func (m *Memory) Set(key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

func (m *Memory) Len() int {
	return m.lru.Len()
}

func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
