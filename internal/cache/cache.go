package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache holds per-user recommendation lists and the logout denylist.
type Cache interface {
	GetRecommendations(ctx context.Context, userID int64, dst any) error
	SetRecommendations(ctx context.Context, userID int64, v any) error
	InvalidateRecommendations(ctx context.Context, userID int64) error
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func RecommendationsKey(userID int64) string {
	return fmt.Sprintf("recommendations:user:%d", userID)
}

func RevokedKey(tokenID string) string {
	return "revoked:" + tokenID
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(addr, password string, db int, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
			Protocol: 2,
		}),
		ttl: ttl,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) GetRecommendations(ctx context.Context, userID int64, dst any) error {
	cached, err := r.client.Get(ctx, RecommendationsKey(userID)).Result()
	if err == redis.Nil {
		return ErrMiss
	} else if err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		return fmt.Errorf("failed to decode cached data: %w", err)
	}
	return nil
}

func (r *Redis) SetRecommendations(ctx context.Context, userID int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode data for cache: %w", err)
	}
	if err := r.client.Set(ctx, RecommendationsKey(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store in cache: %w", err)
	}
	return nil
}

func (r *Redis) InvalidateRecommendations(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, RecommendationsKey(userID)).Err()
}

func (r *Redis) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, RevokedKey(tokenID), "1", ttl).Err()
}

func (r *Redis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, RevokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("cache error: %w", err)
	}
	return n > 0, nil
}

type entry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Cache used when no Redis address is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return e.data, true
}

func (m *Memory) set(key string, data []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}
	m.entries[key] = entry{data: data, expires: expires}
}

func (m *Memory) GetRecommendations(_ context.Context, userID int64, dst any) error {
	data, ok := m.get(RecommendationsKey(userID))
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(data, dst)
}

func (m *Memory) SetRecommendations(_ context.Context, userID int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode data for cache: %w", err)
	}
	m.set(RecommendationsKey(userID), data, m.ttl)
	return nil
}

func (m *Memory) InvalidateRecommendations(_ context.Context, userID int64) error {
	m.mu.Lock()
	delete(m.entries, RecommendationsKey(userID))
	m.mu.Unlock()
	return nil
}

func (m *Memory) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.set(RevokedKey(tokenID), []byte("1"), ttl)
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.get(RevokedKey(tokenID))
	return ok, nil
}
