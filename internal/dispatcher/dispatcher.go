// Package dispatcher consumes fulfillment jobs and runs the processing step
// for paid orders. Dispatch must be safe to invoke twice for the same job:
// the queue delivers at least once.
package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/messages"
	"github.com/ai-mommy/photobooth-bot/store"
	"github.com/ai-mommy/photobooth-bot/types"
)

// Processor performs the actual image work for one order. Implementations
// are provider-specific; the dispatcher only cares about success or failure.
type Processor interface {
	Process(ctx context.Context, serviceType string, input map[string]interface{}) ([]string, error)
}

type Dispatcher struct {
	orders    types.OrderStore
	processor Processor
	notifier  types.Notifier
}

func NewDispatcher(orders types.OrderStore, processor Processor, notifier types.Notifier) *Dispatcher {
	return &Dispatcher{
		orders:    orders,
		processor: processor,
		notifier:  notifier,
	}
}

// Dispatch handles one fulfillment job. A nil return commits the message; an
// error leaves it for redelivery, so only transient store faults return one.
// Processing failures are recorded as the order's terminal state instead.
func (d *Dispatcher) Dispatch(ctx context.Context, job types.FulfillmentJob) error {
	order, err := d.orders.GetOrder(job.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			log.Warn().Str("order_id", job.OrderID).Str("job_type", job.Type).Msg("fulfillment job for unknown order, dropping")
			return nil
		}
		return fmt.Errorf("load order: %w", err)
	}

	// Redelivery of a settled order is a no-op.
	if order.Status.Terminal() {
		log.Info().Str("order_id", order.ID).Str("status", string(order.Status)).Msg("order already settled, dropping job")
		return nil
	}

	if order.Status == types.StatusPaid {
		if err := d.orders.UpdateStatus(order.ID, types.StatusProcessing); err != nil {
			switch {
			case errors.Is(err, store.ErrAlreadyFinalized):
				return nil
			case errors.Is(err, store.ErrInvalidTransition):
				// A concurrent delivery moved it to processing first; keep going.
			default:
				return fmt.Errorf("mark order processing: %w", err)
			}
		}
		if err := d.notifier.SendText(ctx, job.ChatID, messages.ProcessingStarted()); err != nil {
			log.Error().Err(err).Str("order_id", order.ID).Msg("failed to send processing notice")
		}
	}

	result, err := d.processor.Process(ctx, order.ServiceType, d.inputFor(order, job))
	if err != nil {
		return d.fail(ctx, order.ID, job.ChatID, err)
	}
	return d.complete(ctx, order.ID, job.ChatID, result)
}

// inputFor prefers the persisted input payload; job fields cover orders whose
// input never went through the prompt flow.
func (d *Dispatcher) inputFor(order *types.Order, job types.FulfillmentJob) map[string]interface{} {
	if len(order.Input) > 0 {
		return order.Input
	}
	input := map[string]interface{}{}
	if job.Prompt != "" {
		input["prompt"] = job.Prompt
	}
	if job.PhotoFileID != "" {
		input["photo_file_id"] = job.PhotoFileID
	}
	return input
}

func (d *Dispatcher) complete(ctx context.Context, orderID string, chatID int64, result []string) error {
	if err := d.orders.MarkCompleted(orderID, result); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyFinalized):
			return nil
		default:
			return fmt.Errorf("mark order completed: %w", err)
		}
	}

	if err := d.notifier.SendText(ctx, chatID, messages.ResultsReady(result)); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to deliver results")
	}
	log.Info().Str("order_id", orderID).Int("results", len(result)).Msg("order completed")
	return nil
}

// fail settles the order as failed. The error is terminal at this layer, so
// the message is still committed; redelivering cannot change the outcome.
func (d *Dispatcher) fail(ctx context.Context, orderID string, chatID int64, cause error) error {
	log.Error().Err(cause).Str("order_id", orderID).Msg("fulfillment processing failed")

	if err := d.orders.UpdateStatus(orderID, types.StatusFailed); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyFinalized), errors.Is(err, store.ErrInvalidTransition):
		default:
			return fmt.Errorf("mark order failed: %w", err)
		}
	}

	if err := d.notifier.SendText(ctx, chatID, messages.ProcessingFailed()); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to send failure notice")
	}
	return nil
}
