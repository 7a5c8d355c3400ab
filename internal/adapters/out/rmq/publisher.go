// Package rmq publishes dispatch events to a RabbitMQ topic exchange so
// that downstream consumers (billing, analytics, customer notifications)
// can react to job lifecycle changes.
package rmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

const (
	ExchangeName = "dispatch.events"

	RoutingKeyJobCreated       = "job.created"
	RoutingKeyJobAssigned      = "job.assigned"
	RoutingKeyJobStatusChanged = "job.status_changed"

	dialAttempts = 5
)

type eventMessage struct {
	Event            string     `json:"event"`
	JobID            string     `json:"job_id"`
	CustomerID       string     `json:"customer_id"`
	Status           string     `json:"status"`
	AssignedDriverID *string    `json:"assigned_driver_id,omitempty"`
	OccurredAt       time.Time  `json:"occurred_at"`
	ScheduledFor     *time.Time `json:"scheduled_for,omitempty"`
}

// Publisher is a best effort dispatch notifier backed by RabbitMQ. Publish
// failures are logged and never propagated: messaging must not affect the
// outcome of an already committed command.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

// NewPublisher dials RabbitMQ with exponential backoff and declares the
// dispatch events topic exchange.
func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	conn, err := dial(url, logger)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:    conn,
		channel: channel,
		logger:  logger.With("component", "rmq_publisher"),
	}, nil
}

func dial(url string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("rabbitmq dial failed", "attempt", attempt, "error", err)
		time.Sleep(time.Second * time.Duration(math.Pow(2, float64(attempt))))
	}
	return nil, fmt.Errorf("failed to connect to rabbitmq after %d attempts: %w", dialAttempts, err)
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *Publisher) NotifyJobCreated(ctx context.Context, aggregate *job.Job) {
	p.publish(ctx, RoutingKeyJobCreated, aggregate)
}

func (p *Publisher) NotifyJobAssigned(ctx context.Context, aggregate *job.Job, _ kernel.UUID) {
	p.publish(ctx, RoutingKeyJobAssigned, aggregate)
}

func (p *Publisher) NotifyJobStatusChanged(ctx context.Context, aggregate *job.Job) {
	p.publish(ctx, RoutingKeyJobStatusChanged, aggregate)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, aggregate *job.Job) {
	message := eventMessage{
		Event:        routingKey,
		JobID:        aggregate.ID().String(),
		CustomerID:   aggregate.CustomerID().String(),
		Status:       aggregate.Status().String(),
		OccurredAt:   time.Now().UTC(),
		ScheduledFor: aggregate.ScheduledFor(),
	}
	if driverID := aggregate.AssignedDriver(); driverID != nil {
		id := driverID.String()
		message.AssignedDriverID = &id
	}

	body, err := json.Marshal(message)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to encode event", "routing_key", routingKey, "error", err)
		return
	}

	if err := p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		p.logger.WarnContext(ctx, "failed to publish event",
			"routing_key", routingKey, "job_id", message.JobID, "error", err)
	}
}
