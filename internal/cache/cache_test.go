package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Cache = (*Redis)(nil)
	_ Cache = (*Memory)(nil)
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "recommendations:user:7", RecommendationsKey(7))
	assert.Equal(t, "revoked:abc", RevokedKey("abc"))
}

func TestMemoryRecommendations(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	var got []int
	err := m.GetRecommendations(ctx, 1, &got)
	assert.True(t, errors.Is(err, ErrMiss))

	require.NoError(t, m.SetRecommendations(ctx, 1, []int{3, 2, 1}))
	require.NoError(t, m.GetRecommendations(ctx, 1, &got))
	assert.Equal(t, []int{3, 2, 1}, got)

	require.NoError(t, m.InvalidateRecommendations(ctx, 1))
	assert.True(t, errors.Is(m.GetRecommendations(ctx, 1, &got), ErrMiss))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(ctx, "jti", 10*time.Second))
	revoked, err := m.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(11 * time.Second)
	revoked, err = m.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, m.Revoke(ctx, "stale", 0))
	revoked, _ = m.IsRevoked(ctx, "stale")
	assert.False(t, revoked)
}
