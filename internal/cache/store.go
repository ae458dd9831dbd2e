// Package cache holds the key/value stores used for read caching and rate limiting.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	jsoniter "github.com/json-iterator/go"
)

// ErrMiss is returned when a key is not cached
var ErrMiss = errors.New("cache miss")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is a byte-oriented cache with per-entry expiry
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store backed by ristretto
type MemoryStore struct {
	cache *ristretto.Cache[string, []byte]
}

// NewMemoryStore creates a MemoryStore holding at most maxCost bytes
func NewMemoryStore(maxCost int64) (*MemoryStore, error) {
	if maxCost <= 0 {
		maxCost = 1 << 20
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost / 10,
		MaxCost:     maxCost,
		BufferItems: 64,
		Cost: func(value []byte) int64 {
			return int64(len(value))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &MemoryStore{cache: c}, nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return val, nil
}

// Set stores value and waits for the write to become visible
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.SetWithTTL(key, value, 0, ttl)
	m.cache.Wait()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.cache.Del(key)
	return nil
}

// Close stops the cache's background goroutines
func (m *MemoryStore) Close() {
	m.cache.Close()
}

// RedisStore is a Store shared between server instances
type RedisStore struct {
	client *RedisClient
	prefix string
}

// NewRedisStore creates a RedisStore namespacing keys under prefix
func NewRedisStore(client *RedisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return r.client.Get(ctx, r.prefix+key)
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.SetEx(ctx, r.prefix+key, value, ttl)
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key)
}

// GetJSON decodes a cached JSON value into v
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SetJSON caches v encoded as JSON
func SetJSON(ctx context.Context, s Store, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return s.Set(ctx, key, data, ttl)
}
