package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bilgisen/titan/internal/utils"
)

type entry struct {
	html    string
	expires time.Time
}

// MockRedisClient is an in-memory page cache used when Redis is not configured.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (m *MockRedisClient) Close() error {
	return nil
}

func (m *MockRedisClient) GetPage(ctx context.Context, name string) (string, error) {
	m.mu.RLock()
	e, ok := m.data[utils.Hash(name)]
	m.mu.RUnlock()

	if !ok || (!e.expires.IsZero() && !m.now().Before(e.expires)) {
		return "", ErrMiss
	}
	return e.html, nil
}

func (m *MockRedisClient) SetPage(ctx context.Context, name, html string, ttl time.Duration) error {
	e := entry{html: html}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.data[utils.Hash(name)] = e
	m.mu.Unlock()
	return nil
}

func (m *MockRedisClient) DeletePage(ctx context.Context, name string) error {
	m.mu.Lock()
	delete(m.data, utils.Hash(name))
	m.mu.Unlock()
	return nil
}

func (m *MockRedisClient) ClearPages(ctx context.Context) error {
	m.mu.Lock()
	m.data = make(map[string]entry)
	m.mu.Unlock()
	return nil
}
