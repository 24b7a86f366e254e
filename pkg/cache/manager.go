package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Hash fields of a stored entry. The key itself expires with the entry.
const (
	fieldBody         = "body"
	fieldETag         = "etag"
	fieldLastModified = "last_modified"
	fieldStatus       = "status"
	fieldHeaders      = "headers"
	fieldCachedAt     = "cached_at"
	fieldExpires      = "expires"
)

// Manager stores PokeAPI responses as Redis hashes.
type Manager struct {
	redis *redis.Client
}

// NewManager creates a new cache manager with Redis backend.
func NewManager(redisClient *redis.Client) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{
		redis: redisClient,
	}
}

// Get retrieves a cache entry by key.
// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
func (m *Manager) Get(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	fields, err := m.redis.HGetAll(ctx, key.String()).Result()
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	entry, err := decodeEntry(fields)
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, err
	}

	if entry.IsExpired() {
		_ = m.Delete(ctx, key)
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("redis").Inc()
	return entry, nil
}

// Set stores a cache entry that expires at entry.Expires.
// Entries that are already expired are silently skipped.
func (m *Manager) Set(ctx context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if entry.TTL() <= 0 {
		return nil
	}

	fields, err := encodeEntry(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return err
	}

	redisKey := key.String()
	_, err = m.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKey)
		pipe.HSet(ctx, redisKey, fields)
		pipe.ExpireAt(ctx, redisKey, entry.Expires)
		return nil
	})
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis hset: %w", err)
	}

	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key CacheKey) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// UpdateTTL moves the expiry of an existing entry, typically after a 304.
// The body is left untouched.
func (m *Manager) UpdateTTL(ctx context.Context, key CacheKey, newExpires time.Time) error {
	if !newExpires.After(time.Now()) {
		return m.Delete(ctx, key)
	}

	redisKey := key.String()
	n, err := m.redis.Exists(ctx, redisKey).Result()
	if err != nil {
		CacheErrors.WithLabelValues("update").Inc()
		return fmt.Errorf("redis exists: %w", err)
	}
	if n == 0 {
		return ErrCacheMiss
	}

	_, err = m.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisKey, fieldExpires, newExpires.UTC().Format(time.RFC3339Nano))
		pipe.ExpireAt(ctx, redisKey, newExpires)
		return nil
	})
	if err != nil {
		CacheErrors.WithLabelValues("update").Inc()
		return fmt.Errorf("redis expireat: %w", err)
	}
	return nil
}

func encodeEntry(entry *CacheEntry) (map[string]any, error) {
	headers, err := json.Marshal(entry.Headers)
	if err != nil {
		return nil, fmt.Errorf("marshal cache headers: %w", err)
	}

	fields := map[string]any{
		fieldBody:     entry.Data,
		fieldETag:     entry.ETag,
		fieldStatus:   entry.StatusCode,
		fieldHeaders:  headers,
		fieldExpires:  entry.Expires.UTC().Format(time.RFC3339Nano),
		fieldCachedAt: entry.CachedAt.UTC().Format(time.RFC3339Nano),
	}
	if !entry.LastModified.IsZero() {
		fields[fieldLastModified] = entry.LastModified.UTC().Format(http.TimeFormat)
	}
	return fields, nil
}

func decodeEntry(fields map[string]string) (*CacheEntry, error) {
	entry := &CacheEntry{
		Data: []byte(fields[fieldBody]),
		ETag: fields[fieldETag],
	}

	var err error
	if entry.Expires, err = time.Parse(time.RFC3339Nano, fields[fieldExpires]); err != nil {
		return nil, fmt.Errorf("%w: expires: %v", ErrInvalidEntry, err)
	}
	if v := fields[fieldCachedAt]; v != "" {
		if entry.CachedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("%w: cached_at: %v", ErrInvalidEntry, err)
		}
	}
	if v := fields[fieldLastModified]; v != "" {
		if entry.LastModified, err = http.ParseTime(v); err != nil {
			return nil, fmt.Errorf("%w: last_modified: %v", ErrInvalidEntry, err)
		}
	}
	if v := fields[fieldStatus]; v != "" {
		if entry.StatusCode, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("%w: status: %v", ErrInvalidEntry, err)
		}
	}
	if v := fields[fieldHeaders]; v != "" && v != "null" {
		if err := json.Unmarshal([]byte(v), &entry.Headers); err != nil {
			return nil, fmt.Errorf("%w: headers: %v", ErrInvalidEntry, err)
		}
	}

	return entry, nil
}
