// Package rabbitmq owns the AMQP connection and the durable report job queue.
// The connection is opened once at process start and released at shutdown;
// both the publisher side and the consumer side share it.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heartmarshall/bookshelf-backend/internal/config"
	"github.com/heartmarshall/bookshelf-backend/internal/domain"
)

// Queue wraps an AMQP channel bound to the named durable report queue.
type Queue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

// New dials the broker, opens a channel and declares the durable queue.
func New(cfg config.RabbitMQConfig) (*Queue, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", cfg.Queue, err)
	}

	return &Queue{conn: conn, ch: ch, name: cfg.Queue}, nil
}

// PublishReportJob enqueues a persistent report job message.
func (q *Queue) PublishReportJob(ctx context.Context, job domain.ReportJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal report job: %w", err)
	}

	err = q.ch.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    job.ID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish report job: %w", err)
	}

	return nil
}

// Consume starts delivering report job messages. Deliveries must be acked by
// the caller.
func (q *Queue) Consume(ctx context.Context) (<-chan amqp.Delivery, error) {
	deliveries, err := q.ch.ConsumeWithContext(ctx, q.name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume queue %s: %w", q.name, err)
	}
	return deliveries, nil
}

// Close releases the channel and connection.
func (q *Queue) Close() error {
	if err := q.ch.Close(); err != nil {
		_ = q.conn.Close()
		return fmt.Errorf("close channel: %w", err)
	}
	if err := q.conn.Close(); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}
