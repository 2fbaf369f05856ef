package main

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	full := Config{DatabaseURL: "postgres://localhost/skillnest", RabbitMQURL: "amqp://localhost", JWT: JWTConfig{Secret: "s3cret"}, Port: 8080}

	tests := []struct {
		name    string
		mutate  func(*Config)
		needs   int
		wantErr []string
	}{
		{name: "complete", needs: needDatabase | needJWT | needBroker},
		{
			name:    "missing database",
			mutate:  func(c *Config) { c.DatabaseURL = " " },
			needs:   needDatabase | needJWT,
			wantErr: []string{"empty DB_URL in environment"},
		},
		{
			name:    "broker only checked when needed",
			mutate:  func(c *Config) { c.RabbitMQURL = "" },
			needs:   needDatabase | needJWT,
			wantErr: nil,
		},
		{
			name: "reports every problem",
			mutate: func(c *Config) {
				c.JWT.Secret = ""
				c.RabbitMQURL = ""
				c.Port = 70000
			},
			needs: needJWT | needBroker,
			wantErr: []string{
				"empty JWT_SECRET in environment",
				"empty RABBITMQ_URL in environment",
				"port must be between 0 and 65535",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := full
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			err := c.Validate(tt.needs)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tt.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("db-url", "postgres://db")
	v.Set("r2.bucket", "media")

	var got Config
	require.NoError(t, v.Unmarshal(&got))

	want := Config{
		DatabaseURL:   "postgres://db",
		Port:          8080,
		AllowedOrigin: "*",
		JWT:           JWTConfig{TTL: 24 * time.Hour},
		Redis:         RedisConfig{TTL: 10 * time.Minute},
		Gemini:        GeminiConfig{Model: "gemini-2.5-pro"},
		Upload:        UploadConfig{MaxMB: 200},
		RateLimit:     RateLimitConfig{PerSecond: 1, Burst: 5},
		Worker:        WorkerSettings{Attempts: 3, Backoff: 500 * time.Millisecond},
	}
	want.R2.Bucket = "media"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
