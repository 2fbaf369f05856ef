package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const (
	SkillEventsQueue      = "skill_events"
	RecommendationUpdates = "recommendation_updates"
)

// Skill event reasons.
const (
	ReasonCourseCompleted = "course_completed"
	ReasonSkillsChanged   = "skills_changed"
	ReasonManual          = "manual"
	ReasonJobsChanged     = "jobs_changed"
)

var ErrMalformed = errors.New("malformed skill event")

// SkillEvent tells the worker that a user's acquired skills changed.
type SkillEvent struct {
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func DecodeSkillEvent(body []byte) (SkillEvent, error) {
	var ev SkillEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.UserID <= 0 {
		return ev, fmt.Errorf("%w: missing user_id", ErrMalformed)
	}
	return ev, nil
}

// RecommendationUpdate is published once a user's stored recommendations change status.
type RecommendationUpdate struct {
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func RoutingKey(userID int64) string {
	return fmt.Sprintf("user.%d", userID)
}

type Publisher interface {
	PublishSkillEvent(ctx context.Context, ev SkillEvent) error
	PublishRecommendationUpdate(ctx context.Context, update RecommendationUpdate) error
}

// AMQP publishes over a shared RabbitMQ connection, opening a channel per message.
type AMQP struct {
	conn *amqp.Connection
	once sync.Once
	err  error
}

func Dial(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	return &AMQP{conn: conn}, nil
}

func (a *AMQP) Conn() *amqp.Connection {
	return a.conn
}

func (a *AMQP) Close() error {
	return a.conn.Close()
}

// Declare creates the durable skill event queue and the update exchange.
func Declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		SkillEventsQueue, // queue name
		true,             // durable (survives broker restarts)
		false,            // auto-delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	err = ch.ExchangeDeclare(
		RecommendationUpdates, // name
		"topic",               // kind
		true,                  // durable
		false,                 // auto-delete
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}

func (a *AMQP) declareOnce() error {
	a.once.Do(func() {
		ch, err := a.conn.Channel()
		if err != nil {
			a.err = err
			return
		}
		defer ch.Close()
		a.err = Declare(ch)
	})
	return a.err
}

func (a *AMQP) publish(exchange, key string, v any) error {
	if err := a.declareOnce(); err != nil {
		return err
	}
	ch, err := a.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	return ch.Publish(
		exchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (a *AMQP) PublishSkillEvent(_ context.Context, ev SkillEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return a.publish("", SkillEventsQueue, ev)
}

func (a *AMQP) PublishRecommendationUpdate(_ context.Context, update RecommendationUpdate) error {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}
	return a.publish(RecommendationUpdates, RoutingKey(update.UserID), update)
}
