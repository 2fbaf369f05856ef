package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/muhammadolammi/skillnest/internal/cache"
	"github.com/muhammadolammi/skillnest/internal/database"
	"github.com/muhammadolammi/skillnest/internal/events"
	"github.com/muhammadolammi/skillnest/internal/learning"
)

// retry retries a function up to `attempts` times with linear backoff. It
// gives up early when ctx is cancelled.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

type recommender interface {
	GenerateRecommendations(ctx context.Context, userID int64) (int, error)
}

type WorkerConfig struct {
	Recommender recommender
	Cache       cache.Cache
	Publisher   events.Publisher
	Logger      *zap.Logger
	Attempts    int
	Backoff     time.Duration
}

func (wc *WorkerConfig) publish(ctx context.Context, userID int64, status, msg string, count int) {
	err := wc.Publisher.PublishRecommendationUpdate(ctx, events.RecommendationUpdate{
		UserID:  userID,
		Status:  status,
		Message: msg,
		Count:   count,
	})
	if err != nil {
		wc.Logger.Warn("failed to publish update", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// handle processes one skill event. Malformed bodies and events that still fail
// after retries are rejected without requeue so they cannot poison the queue.
func (wc *WorkerConfig) handle(ctx context.Context, id int, msg amqp.Delivery) {
	ev, err := events.DecodeSkillEvent(msg.Body)
	if err != nil {
		wc.Logger.Warn("dropping malformed skill event", zap.Int("worker", id), zap.ByteString("body", msg.Body), zap.Error(err))
		if err := msg.Reject(false); err != nil {
			wc.Logger.Warn("failed to reject skill event", zap.Int("worker", id), zap.Error(err))
		}
		return
	}
	log := wc.Logger.With(zap.Int("worker", id), zap.Int64("user_id", ev.UserID), zap.String("reason", ev.Reason))
	log.Info("processing skill event")
	wc.publish(ctx, ev.UserID, "processing", "recommendations refresh started", 0)

	count, err := retry(ctx, wc.Attempts, wc.Backoff, func() (int, error) {
		return wc.Recommender.GenerateRecommendations(ctx, ev.UserID)
	})
	if err != nil {
		log.Error("failed to generate recommendations", zap.Error(err))
		wc.publish(ctx, ev.UserID, "failed", "recommendations refresh failed", 0)
		if err := msg.Reject(false); err != nil {
			log.Warn("failed to reject skill event", zap.Error(err))
		}
		return
	}

	if err := wc.Cache.InvalidateRecommendations(ctx, ev.UserID); err != nil {
		log.Warn("failed to invalidate cached recommendations", zap.Error(err))
	}
	wc.publish(ctx, ev.UserID, "completed", "recommendations refreshed", count)
	if err := msg.Ack(false); err != nil {
		log.Warn("failed to ack skill event", zap.Error(err))
	}
	log.Info("skill event processed", zap.Int("recommendations", count))
}

func (wc *WorkerConfig) worker(ctx context.Context, id int, msgs <-chan amqp.Delivery, wg *sync.WaitGroup) {
	defer wg.Done()
	for msg := range msgs {
		wc.handle(ctx, id, msg)
	}
	wc.Logger.Debug("worker stopped", zap.Int("worker", id))
}

// StartConsumerWorkerPool fans msgs out to numWorkers workers and blocks until
// msgs is closed and every worker is done.
func (wc *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int, msgs <-chan amqp.Delivery) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		wc.Logger.Info("worker started", zap.Int("worker", i+1))
		go wc.worker(ctx, i+1, msgs, &wg)
	}
	wg.Wait()
}

// consume declares the topology and starts a manually acked consumer on the
// skill event queue.
func consume(ch *amqp.Channel, prefetch int) (<-chan amqp.Delivery, error) {
	if err := events.Declare(ch); err != nil {
		return nil, err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}
	msgs, err := ch.Consume(
		events.SkillEventsQueue, // queue name
		"",                      // consumer tag
		false,                   // auto-ack
		false,                   // exclusive
		false,                   // no-local
		false,                   // no-wait
		nil,                     // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("error consuming rabbitmq message: %w", err)
	}
	return msgs, nil
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume skill events and refresh job recommendations",
	Run: func(cmd *cobra.Command, _ []string) {
		workers, _ := cmd.Flags().GetInt("workers")
		runWorker(workers)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().IntP("workers", "w", 3, "number of concurrent consumers")
}

func runWorker(numWorkers int) {
	lg, config := setup(needDatabase | needBroker)
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(config.DatabaseURL)
	if err != nil {
		lg.Fatal("error opening db", zap.Error(err))
	}
	defer store.Close()

	c, closeCache, err := openCache(ctx, config.Redis, lg)
	if err != nil {
		lg.Fatal("error opening cache", zap.Error(err))
	}
	defer closeCache()

	broker, err := events.Dial(config.RabbitMQURL)
	if err != nil {
		lg.Fatal("error connecting to RabbitMQ", zap.Error(err))
	}
	defer broker.Close()

	ch, err := broker.Conn().Channel()
	if err != nil {
		lg.Fatal("error connecting to rabbitmq channel", zap.Error(err))
	}
	msgs, err := consume(ch, numWorkers)
	if err != nil {
		lg.Fatal("failed to start consumer", zap.Error(err))
	}

	// closing the channel closes msgs, which drains the pool
	go func() {
		<-ctx.Done()
		lg.Info("shutting down worker pool")
		if err := ch.Close(); err != nil {
			lg.Warn("failed to close consumer channel", zap.Error(err))
		}
	}()

	wc := &WorkerConfig{
		// the worker publishes the updates itself, so the service never re-enqueues
		Recommender: learning.NewService(store, c, nil, lg),
		Cache:       c,
		Publisher:   broker,
		Logger:      lg,
		Attempts:    config.Worker.Attempts,
		Backoff:     config.Worker.Backoff,
	}
	lg.Info("starting consumer pool", zap.Int("workers", numWorkers), zap.String("version", version))
	wc.StartConsumerWorkerPool(ctx, numWorkers, msgs)
}
