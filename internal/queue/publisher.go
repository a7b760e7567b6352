package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ai-mommy/photobooth-bot/types"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Publisher writes fulfillment jobs to Kafka. Messages are keyed by order id
// so redeliveries of one order stay on one partition.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{writer: writer}
}

func (p *Publisher) Enqueue(ctx context.Context, job types.FulfillmentJob) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	value, err := json.Marshal(job)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(job.OrderID),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("topic", p.writer.Topic).Str("order_id", job.OrderID).Msg("failed to publish fulfillment job")
		return err
	}

	log.Debug().Str("topic", p.writer.Topic).Str("order_id", job.OrderID).Str("job_type", job.Type).Msg("fulfillment job published")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
