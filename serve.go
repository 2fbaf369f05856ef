package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/muhammadolammi/skillnest/internal/api"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/learning"
	"github.com/muhammadolammi/skillnest/internal/recommend"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer() {
	lg, config := setup(needDatabase | needJWT)
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(config.DatabaseURL)
	if err != nil {
		lg.Fatal("error opening db", zap.Error(err))
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		lg.Fatal("error reaching db", zap.Error(err))
	}

	c, closeCache, err := openCache(ctx, config.Redis, lg)
	if err != nil {
		lg.Fatal("error opening cache", zap.Error(err))
	}
	defer closeCache()

	objects, err := openObjects(ctx, config, lg)
	if err != nil {
		lg.Fatal("error creating object store", zap.Error(err))
	}

	publisher, closePublisher, err := openPublisher(config.RabbitMQURL, lg)
	if err != nil {
		lg.Fatal("error connecting to RabbitMQ", zap.Error(err))
	}
	defer closePublisher()

	catalog, err := recommend.LoadCatalog(config.CareerCatalog)
	if err != nil {
		lg.Fatal("error loading career catalog", zap.Error(err))
	}

	proxies, err := api.ParseTrustedProxies(config.RateLimit.TrustedProxies)
	if err != nil {
		lg.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}

	opts := api.Options{
		Store:          store,
		Learning:       learning.NewService(store, c, publisher, lg),
		Issuer:         auth.NewIssuer(config.JWT.Secret, config.JWT.TTL),
		Cache:          c,
		Objects:        objects,
		Catalog:        catalog,
		Logger:         lg,
		MaxUploadBytes: config.Upload.MaxMB << 20,
		AllowedOrigin:  config.AllowedOrigin,
		RateLimit:      rate.Limit(config.RateLimit.PerSecond),
		RateBurst:      config.RateLimit.Burst,
		TrustedProxies: proxies,
	}
	if config.Gemini.APIKey != "" {
		advisor, err := NewCareerAdvisor(ctx, config.Gemini.APIKey, config.Gemini.Model, lg)
		if err != nil {
			lg.Fatal("failed to create career advisor", zap.Error(err))
		}
		opts.Advisor = advisor
	} else {
		lg.Warn("GOOGLE_API_KEY not set, career advice is disabled")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           api.NewServer(opts).Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", zap.String("addr", srv.Addr), zap.String("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		lg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
