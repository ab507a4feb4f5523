package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/sporthive-results/pkg/logging"
)

var (
	// ErrNotFound indicates nothing is stored under the key, or the entry expired
	ErrNotFound = errors.New("collection not found")

	// ErrInvalidEntry indicates the stored entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid store entry")
)

// Manager reads and writes published collections in Redis.
type Manager struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewManager creates a new store manager with Redis backend.
func NewManager(redisClient *redis.Client) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{
		redis:  redisClient,
		logger: logging.NewLogger("store"),
	}
}

// Get retrieves the collection stored under key.
// Returns ErrNotFound if the key doesn't exist or the entry is expired.
func (m *Manager) Get(ctx context.Context, key Key) (*Entry, error) {
	redisKey := key.String()

	data, err := m.redis.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			StoreMisses.Inc()
			return nil, ErrNotFound
		}
		StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		StoreErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() {
		_ = m.Delete(ctx, key)
		StoreMisses.Inc()
		return nil, ErrNotFound
	}

	StoreHits.Inc()
	StoreSize.Add(float64(len(data)))

	return &entry, nil
}

// Set stores entry under key with a Redis TTL taken from entry.Expires.
// Expired entries are not stored.
func (m *Manager) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("store entry cannot be nil")
	}

	redisKey := key.String()

	ttl := entry.TTL()
	if ttl <= 0 {
		m.logger.Debug().Str("key", redisKey).Msg("Entry already expired, not stored")
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		StoreErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal store entry: %w", err)
	}

	if err := m.redis.Set(ctx, redisKey, data, ttl).Err(); err != nil {
		StoreErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	StoreSize.Add(float64(len(data)))

	m.logger.Info().
		Str("key", redisKey).
		Int("records", len(entry.Records)).
		Dur("ttl", ttl).
		Msg("Collection published")

	return nil
}

// Delete removes the collection stored under key.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		StoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
