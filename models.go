package main

import (
	"errors"
	"strings"
	"time"

	"github.com/muhammadolammi/skillnest/internal/storage"
)

type Config struct {
	DatabaseURL   string           `mapstructure:"db-url"`
	RabbitMQURL   string           `mapstructure:"rabbitmq-url"`
	Port          int              `mapstructure:"port"`
	AllowedOrigin string           `mapstructure:"allowed-origin"`
	CareerCatalog string           `mapstructure:"career-catalog"`
	JWT           JWTConfig        `mapstructure:"jwt"`
	Redis         RedisConfig      `mapstructure:"redis"`
	R2            storage.R2Config `mapstructure:"r2"`
	Gemini        GeminiConfig     `mapstructure:"gemini"`
	Upload        UploadConfig     `mapstructure:"upload"`
	RateLimit     RateLimitConfig  `mapstructure:"rate-limit"`
	Worker        WorkerSettings   `mapstructure:"worker"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api-key"`
	Model  string `mapstructure:"model"`
}

type UploadConfig struct {
	MaxMB     int64  `mapstructure:"max-mb"`
	PublicURL string `mapstructure:"public-url"`
}

type RateLimitConfig struct {
	PerSecond      float64  `mapstructure:"per-second"`
	Burst          int      `mapstructure:"burst"`
	TrustedProxies []string `mapstructure:"trusted-proxies"`
}

type WorkerSettings struct {
	Attempts int           `mapstructure:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

// Commands validate only what they use.
const (
	needDatabase = 1 << iota
	needJWT
	needBroker
)

func (c *Config) Validate(needs int) error {
	var errs []error
	if needs&needDatabase != 0 && strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("empty DB_URL in environment"))
	}
	if needs&needJWT != 0 && strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("empty JWT_SECRET in environment"))
	}
	if needs&needBroker != 0 && strings.TrimSpace(c.RabbitMQURL) == "" {
		errs = append(errs, errors.New("empty RABBITMQ_URL in environment"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, errors.New("port must be between 0 and 65535"))
	}
	return errors.Join(errs...)
}
