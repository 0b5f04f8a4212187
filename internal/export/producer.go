package export

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Producer publishes export jobs to a durable queue. Publishing is
// synchronous from the caller's perspective but does not wait for a
// consumer; a broker failure surfaces as an error so the API request that
// triggered it fails instead of silently succeeding.
type Producer struct {
	ch *amqp.Channel
}

// NewProducer opens a channel on the given connection.
func NewProducer(conn *amqp.Connection) (*Producer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &Producer{ch: ch}, nil
}

// Send serializes the job and publishes it to the named queue. The durable
// declaration is idempotent and guarantees the queue exists before the
// first publish.
func (p *Producer) Send(ctx context.Context, queue string, job Job) error {
	if _, err := p.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %q: %w", queue, err)
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal export job: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish export job: %w", err)
	}

	return nil
}

// Close releases the underlying channel.
func (p *Producer) Close() error {
	return p.ch.Close()
}
