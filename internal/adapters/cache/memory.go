package cache

import (
	"context"
	"log/slog"

	gocache "github.com/patrickmn/go-cache"

	"conferencecentral/internal/domain"
)

// Memory is an in-process domain.KeyValueCache. Entries never expire; they are
// overwritten or deleted by the recompute jobs.
type Memory struct {
	logger *slog.Logger
	cache  *gocache.Cache
}

// NewMemory returns an empty cache.
func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		logger: logger,
		cache:  gocache.New(gocache.NoExpiration, 0),
	}
}

var _ domain.KeyValueCache = (*Memory)(nil)

// Get retrieves an item from the cache by its key
func (m *Memory) Get(ctx context.Context, key string) (string, bool) {
	value, found := m.cache.Get(key)
	if !found {
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		m.logger.ErrorContext(ctx, "wrong type assertion when getting value", "key", key)
		return "", false
	}
	return s, true
}

func (m *Memory) Set(ctx context.Context, key, value string) {
	m.cache.Set(key, value, gocache.NoExpiration)
	m.logger.DebugContext(ctx, "cache set", "key", key)
}

func (m *Memory) Delete(ctx context.Context, key string) {
	m.cache.Delete(key)
	m.logger.DebugContext(ctx, "cache delete", "key", key)
}
