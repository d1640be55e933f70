package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
)

var (
	_ ports.Cache        = (*MemoryCache)(nil)
	_ ports.RateLimiter  = (*MemoryCache)(nil)
	_ ports.TokenRevoker = (*MemoryCache)(nil)
)

type memEntry struct {
	data    []byte
	count   int64
	expires time.Time
}

// MemoryCache implementación en proceso para desarrollo y tests (sin Redis).
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]*memEntry
	now   func() time.Time
}

// NewMemoryCache constructor.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]*memEntry), now: time.Now}
}

func (m *MemoryCache) get(key string) *memEntry {
	e, ok := m.items[key]
	if !ok {
		return nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.items, key)
		return nil
	}
	return e
}

func (m *MemoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	e := m.get(key)
	m.mu.Unlock()
	if e == nil {
		return false, nil
	}
	return true, json.Unmarshal(e.data, dst)
}

func (m *MemoryCache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = &memEntry{data: data, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *MemoryCache) Hit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := "rl:" + key
	e := m.get(k)
	if e == nil {
		e = &memEntry{expires: m.now().Add(window)}
		m.items[k] = e
	}
	e.count++
	return e.count <= int64(limit), nil
}

func (m *MemoryCache) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, "rl:"+key)
	return nil
}

func (m *MemoryCache) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items["revoked:"+tokenID] = &memEntry{expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryCache) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get("revoked:"+tokenID) != nil, nil
}
