package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muhammadolammi/skillnest/internal/cache"
	"github.com/muhammadolammi/skillnest/internal/events"
	"github.com/muhammadolammi/skillnest/internal/storage"
)

func CleanJson(input string) string {
	clean := strings.TrimSpace(input)

	// Remove opening ```json or ``` with optional newline
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// openCache uses Redis when an address is configured and falls back to an
// in-process cache otherwise.
func openCache(ctx context.Context, cfg RedisConfig, lg *zap.Logger) (cache.Cache, func(), error) {
	if cfg.Addr == "" {
		lg.Warn("REDIS_ADDR not set, using in-memory cache")
		return cache.NewMemory(cfg.TTL), func() {}, nil
	}
	r := cache.NewRedis(cfg.Addr, cfg.Password, cfg.DB, cfg.TTL)
	if err := r.Ping(ctx); err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	return r, func() { r.Close() }, nil
}

// openObjects uses R2 when it is fully configured. The in-memory store is only
// fit for development since uploads vanish on restart.
func openObjects(ctx context.Context, cfg *Config, lg *zap.Logger) (storage.ObjectStore, error) {
	if !cfg.R2.Enabled() {
		lg.Warn("R2 is not configured, uploads are kept in memory")
		return storage.NewMemory(cfg.Upload.PublicURL), nil
	}
	return storage.NewR2(ctx, cfg.R2)
}

// openPublisher dials RabbitMQ when a URL is configured. Without a broker the
// service regenerates recommendations inline.
func openPublisher(url string, lg *zap.Logger) (events.Publisher, func(), error) {
	if url == "" {
		lg.Warn("RABBITMQ_URL not set, recommendations are regenerated inline")
		return nil, func() {}, nil
	}
	broker, err := events.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	return broker, func() { broker.Close() }, nil
}
