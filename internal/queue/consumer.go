package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ai-mommy/photobooth-bot/types"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const commitTimeout = 5 * time.Second

// HandlerFunc processes one fulfillment job. Returning an error leaves the
// message uncommitted so the broker redelivers it; handlers must therefore
// tolerate duplicates.
type HandlerFunc func(ctx context.Context, job types.FulfillmentJob) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:          brokers,
		Topic:            topic,
		GroupID:          groupID,
		MinBytes:         1,
		MaxBytes:         10e6,
		CommitInterval:   0, // commit synchronously, after the handler
		StartOffset:      kafka.FirstOffset,
		MaxWait:          500 * time.Millisecond,
		RebalanceTimeout: 5 * time.Second,
	})

	return &Consumer{reader: reader}
}

// Start consumes until ctx is cancelled. Per-message flow: fetch, handle,
// commit on success only.
func (c *Consumer) Start(ctx context.Context, handler HandlerFunc) error {
	log.Info().Str("topic", c.reader.Config().Topic).Str("group_id", c.reader.Config().GroupID).Msg("fulfillment consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info().Msg("fulfillment consumer stopped")
				return nil
			}
			log.Error().Err(err).Msg("failed to fetch message")
			return err
		}

		var job types.FulfillmentJob
		if err := json.Unmarshal(msg.Value, &job); err != nil {
			// Poison message: park it by committing, redelivery cannot fix it.
			log.Error().Err(err).Int64("offset", msg.Offset).Msg("undecodable fulfillment job, skipping")
			c.commit(msg)
			continue
		}

		if err := handler(ctx, job); err != nil {
			log.Error().Err(err).
				Str("order_id", job.OrderID).
				Int64("offset", msg.Offset).
				Msg("fulfillment handler failed, message not committed")
			continue
		}

		c.commit(msg)
	}
}

func (c *Consumer) commit(msg kafka.Message) {
	// Commit on its own context so shutdown does not drop work that already
	// completed; a lost commit only causes an idempotent redelivery.
	commitCtx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()
	if err := c.reader.CommitMessages(commitCtx, msg); err != nil {
		log.Error().Err(err).Int64("offset", msg.Offset).Msg("failed to commit message")
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
