package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/muhammadolammi/skillnest/internal/cache"
	"github.com/muhammadolammi/skillnest/internal/storage"
)

func TestCleanJson(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding space", input: "  \n{\"a\":1}\n\n", want: `{"a":1}`},
		{name: "crlf", input: "```json\r\n{\"a\":1}\r\n```", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJson(tt.input))
		})
	}
}

func TestOpenFallbacks(t *testing.T) {
	lg := zaptest.NewLogger(t)
	ctx := context.Background()

	c, closeCache, err := openCache(ctx, RedisConfig{TTL: time.Minute}, lg)
	require.NoError(t, err)
	defer closeCache()
	assert.IsType(t, &cache.Memory{}, c)

	objects, err := openObjects(ctx, &Config{Upload: UploadConfig{PublicURL: "http://files.test"}}, lg)
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, objects)

	pub, closePub, err := openPublisher("", lg)
	require.NoError(t, err)
	defer closePub()
	assert.Nil(t, pub)
}
