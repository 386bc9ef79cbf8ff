package db

import (
	"fmt"
	"path"
	"sort"
	"sync"
	"time"
)

// MockRedisClient simulates a Redis client in memory. It backs the cache when
// Redis is disabled and in tests.
type MockRedisClient struct {
	data   map[string]string    // Key-value store
	expiry map[string]time.Time // Deadlines of keys set with a TTL
	mu     sync.RWMutex
	now    func() time.Time
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data:   make(map[string]string),
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (m *MockRedisClient) SetWithTTL(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	if ttl > 0 {
		m.expiry[key] = m.now().Add(ttl)
	} else {
		delete(m.expiry, key)
	}
	return nil
}

func (m *MockRedisClient) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[key]
	if !exists || m.expired(key) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, nil
}

// Keys matches with path.Match, which covers the glob forms used here ("prefix:*").
func (m *MockRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok && !m.expired(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockRedisClient) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.expiry, key)
	return nil
}

// Ping always succeeds.
func (m *MockRedisClient) Ping() error {
	return nil
}

// expired must be called with mu held.
func (m *MockRedisClient) expired(key string) bool {
	deadline, ok := m.expiry[key]
	return ok && !m.now().Before(deadline)
}
