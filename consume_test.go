package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muhammadolammi/skillnest/internal/cache"
	"github.com/muhammadolammi/skillnest/internal/events"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type ackResult struct {
	tag     uint64
	acked   bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	results []ackResult
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, ackResult{tag: tag, acked: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	return f.Reject(tag, requeue)
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, ackResult{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) byTag() map[uint64]ackResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uint64]ackResult, len(f.results))
	for _, r := range f.results {
		out[r.tag] = r
	}
	return out
}

type fakeRecommender struct {
	mu     sync.Mutex
	calls  map[int64]int
	failN  map[int64]int // calls that fail before succeeding
	counts map[int64]int
}

func (f *fakeRecommender) GenerateRecommendations(_ context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[userID]++
	if f.calls[userID] <= f.failN[userID] {
		return 0, errors.New("db unavailable")
	}
	return f.counts[userID], nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates []events.RecommendationUpdate
}

func (p *recordingPublisher) PublishSkillEvent(context.Context, events.SkillEvent) error {
	return nil
}

func (p *recordingPublisher) PublishRecommendationUpdate(_ context.Context, u events.RecommendationUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
	return nil
}

func (p *recordingPublisher) statuses(userID int64) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, u := range p.updates {
		if u.UserID == userID {
			out = append(out, u.Status)
		}
	}
	return out
}

func TestWorkerPool(t *testing.T) {
	ack := &fakeAcknowledger{}
	rec := &fakeRecommender{
		calls:  map[int64]int{},
		failN:  map[int64]int{2: 1, 3: 10},
		counts: map[int64]int{1: 4, 2: 2},
	}
	pub := &recordingPublisher{}
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()
	require.NoError(t, c.SetRecommendations(ctx, 1, []int{1, 2, 3}))

	wc := &WorkerConfig{
		Recommender: rec,
		Cache:       c,
		Publisher:   pub,
		Logger:      zaptest.NewLogger(t),
		Attempts:    3,
		Backoff:     time.Millisecond,
	}

	msgs := make(chan amqp.Delivery, 4)
	bodies := []string{
		`{"user_id":1,"reason":"course_completed"}`,
		`{"user_id":2,"reason":"manual"}`,
		`{"user_id":3,"reason":"skills_changed"}`,
		`not json`,
	}
	for i, b := range bodies {
		msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: uint64(i + 1), Body: []byte(b)}
	}
	close(msgs)

	wc.StartConsumerWorkerPool(ctx, 3, msgs)

	results := ack.byTag()
	require.Len(t, results, 4)
	assert.True(t, results[1].acked)
	assert.True(t, results[2].acked, "transient failure is retried")
	assert.False(t, results[3].acked, "exhausted retries are rejected")
	assert.False(t, results[3].requeue)
	assert.False(t, results[4].acked, "malformed body is dropped")
	assert.False(t, results[4].requeue)

	assert.Equal(t, 2, rec.calls[2])
	assert.Equal(t, 3, rec.calls[3])

	assert.Equal(t, []string{"processing", "completed"}, pub.statuses(1))
	assert.Equal(t, []string{"processing", "completed"}, pub.statuses(2))
	assert.Equal(t, []string{"processing", "failed"}, pub.statuses(3))

	var dst []int
	assert.ErrorIs(t, c.GetRecommendations(ctx, 1, &dst), cache.ErrMiss)
}

func TestWorkerPublishesCount(t *testing.T) {
	ack := &fakeAcknowledger{}
	pub := &recordingPublisher{}
	wc := &WorkerConfig{
		Recommender: &fakeRecommender{calls: map[int64]int{}, counts: map[int64]int{7: 5}},
		Cache:       cache.NewMemory(time.Minute),
		Publisher:   pub,
		Logger:      zaptest.NewLogger(t),
		Attempts:    1,
	}
	wc.handle(context.Background(), 1, amqp.Delivery{Acknowledger: ack, DeliveryTag: 9, Body: []byte(`{"user_id":7}`)})

	require.Len(t, pub.updates, 2)
	last := pub.updates[1]
	assert.Equal(t, "completed", last.Status)
	assert.Equal(t, 5, last.Count)
	assert.True(t, ack.byTag()[9].acked)
}

type brokenAcknowledger struct{}

func (brokenAcknowledger) Ack(uint64, bool) error        { return amqp.ErrClosed }
func (brokenAcknowledger) Nack(uint64, bool, bool) error { return amqp.ErrClosed }
func (brokenAcknowledger) Reject(uint64, bool) error     { return amqp.ErrClosed }

func TestWorkerLogsAckFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	wc := &WorkerConfig{
		Recommender: &fakeRecommender{calls: map[int64]int{}, failN: map[int64]int{2: 1}},
		Cache:       cache.NewMemory(time.Minute),
		Publisher:   &recordingPublisher{},
		Logger:      zap.New(core),
		Attempts:    1,
	}
	ctx := context.Background()
	wc.handle(ctx, 1, amqp.Delivery{Acknowledger: brokenAcknowledger{}, Body: []byte(`{"user_id":1}`)})
	wc.handle(ctx, 1, amqp.Delivery{Acknowledger: brokenAcknowledger{}, Body: []byte(`{"user_id":2}`)})
	wc.handle(ctx, 1, amqp.Delivery{Acknowledger: brokenAcknowledger{}, Body: []byte(`garbage`)})

	assert.Equal(t, 1, logs.FilterMessage("failed to ack skill event").Len())
	assert.Equal(t, 2, logs.FilterMessage("failed to reject skill event").Len())
}

func TestRetry(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		got, err := retry(context.Background(), 3, time.Millisecond, func() (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("boom")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 3, calls)
	})

	t.Run("wraps the last error", func(t *testing.T) {
		sentinel := errors.New("still broken")
		calls := 0
		_, err := retry(context.Background(), 2, time.Millisecond, func() (int, error) {
			calls++
			return 0, sentinel
		})
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := retry(ctx, 5, time.Hour, func() (int, error) {
			calls++
			cancel()
			return 0, errors.New("boom")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
