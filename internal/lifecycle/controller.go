// Package lifecycle drives orders through their status graph: purchase
// initiation, payment webhook reconciliation and the prompt-then-photo input
// flow for services that need user material after payment.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/catalog"
	"github.com/ai-mommy/photobooth-bot/internal/messages"
	"github.com/ai-mommy/photobooth-bot/internal/payment"
	"github.com/ai-mommy/photobooth-bot/store"
	"github.com/ai-mommy/photobooth-bot/types"
)

// PaymentGateway creates redirect payments at the provider.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, amount int64, description, returnURL string, metadata map[string]string) (*payment.PaymentIntent, error)
}

// WebhookOutcome classifies reconciliation results for the HTTP layer:
// OK acknowledges the delivery, ClientError means the payload is unusable and
// retrying cannot help, ServerError asks the provider to redeliver.
type WebhookOutcome int

const (
	WebhookOK WebhookOutcome = iota
	WebhookClientError
	WebhookServerError
)

type Controller struct {
	orders   types.OrderStore
	pending  types.PendingInputStore
	queue    types.JobQueue
	gateway  PaymentGateway
	notifier types.Notifier

	returnURL  string
	pendingTTL time.Duration
}

func NewController(
	orders types.OrderStore,
	pending types.PendingInputStore,
	queue types.JobQueue,
	gateway PaymentGateway,
	notifier types.Notifier,
	returnURL string,
	pendingTTL time.Duration,
) *Controller {
	if pendingTTL <= 0 {
		pendingTTL = time.Hour
	}
	return &Controller{
		orders:     orders,
		pending:    pending,
		queue:      queue,
		gateway:    gateway,
		notifier:   notifier,
		returnURL:  returnURL,
		pendingTTL: pendingTTL,
	}
}

// InitiateOrder creates a pending order, requests a payment link and shows it
// to the user. Gateway rejections are reported to the user with a retry
// suggestion and returned to the caller; nothing is retried here.
func (c *Controller) InitiateOrder(ctx context.Context, userID, chatID int64, serviceType string) error {
	svc, ok := catalog.Get(serviceType)
	if !ok {
		return fmt.Errorf("unknown service type %q", serviceType)
	}

	order, err := c.orders.CreateOrder(userID, serviceType)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	intent, err := c.gateway.CreatePayment(ctx, svc.Price, svc.Description, c.returnURL, map[string]string{
		"telegramId": strconv.FormatInt(userID, 10),
		"chatId":     strconv.FormatInt(chatID, 10),
		"orderId":    order.ID,
		"packId":     svc.Type,
	})
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Str("service_type", serviceType).Msg("failed to create payment")
		if sendErr := c.notifier.SendText(ctx, chatID, messages.PaymentCreateFailed()); sendErr != nil {
			log.Error().Err(sendErr).Int64("chat_id", chatID).Msg("failed to send payment failure notice")
		}
		return err
	}

	buttons := []types.Button{
		{Text: messages.BtnPay(), URL: intent.ConfirmationURL},
		{Text: messages.BtnCancel(), CallbackData: "cancel_order:" + order.ID},
	}
	if err := c.notifier.SendTextWithButtons(ctx, chatID, messages.PaymentLink(svc.Description, svc.Price), buttons); err != nil {
		return fmt.Errorf("send payment link: %w", err)
	}

	log.Info().Str("order_id", order.ID).Str("service_type", serviceType).Int64("user_id", userID).Msg("order initiated")
	return nil
}

// CancelOrder handles the inline cancel button on a payment link. Terminal
// orders and orders that already moved past pending are left untouched.
func (c *Controller) CancelOrder(ctx context.Context, chatID int64, orderID string) error {
	err := c.orders.UpdateStatus(orderID, types.StatusCanceled)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrAlreadyFinalized), errors.Is(err, store.ErrInvalidTransition):
		return nil
	default:
		return err
	}

	if err := c.notifier.SendText(ctx, chatID, messages.PaymentCanceled()); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to send cancel notice")
	}
	return nil
}

// HandlePaymentEvent reconciles one provider webhook delivery. It never
// panics or propagates internal faults: every path collapses into one of the
// three outcomes.
func (c *Controller) HandlePaymentEvent(ctx context.Context, n *payment.Notification) WebhookOutcome {
	switch n.Event {
	case types.EventPaymentSucceeded:
		return c.handleSucceeded(ctx, n)
	case types.EventPaymentCanceled:
		return c.handleCanceled(ctx, n)
	default:
		// Unknown event kinds are acknowledged untouched.
		log.Debug().Str("event", n.Event).Str("payment_id", n.Object.ID).Msg("ignoring unhandled payment event")
		return WebhookOK
	}
}

type eventMeta struct {
	orderID    string
	packID     string
	telegramID int64
	chatID     int64
}

func parseEventMeta(n *payment.Notification) (eventMeta, error) {
	m := eventMeta{
		orderID: n.Object.Meta("orderId"),
		packID:  n.Object.Meta("packId"),
	}
	if m.orderID == "" || m.packID == "" {
		return m, payment.ErrMalformedNotification
	}

	var err error
	if m.telegramID, err = strconv.ParseInt(n.Object.Meta("telegramId"), 10, 64); err != nil {
		return m, payment.ErrMalformedNotification
	}
	if m.chatID, err = strconv.ParseInt(n.Object.Meta("chatId"), 10, 64); err != nil {
		return m, payment.ErrMalformedNotification
	}
	return m, nil
}

func (c *Controller) handleSucceeded(ctx context.Context, n *payment.Notification) WebhookOutcome {
	meta, err := parseEventMeta(n)
	if err != nil {
		log.Warn().Str("payment_id", n.Object.ID).Msg("succeeded event with incomplete metadata")
		return WebhookClientError
	}

	amount, err := payment.ParseMajorUnits(n.Object.Amount.Value)
	if err != nil {
		log.Warn().Err(err).Str("payment_id", n.Object.ID).Str("value", n.Object.Amount.Value).Msg("unparsable amount in succeeded event")
		return WebhookClientError
	}

	order, err := c.orders.GetOrder(meta.orderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			log.Warn().Str("order_id", meta.orderID).Str("payment_id", n.Object.ID).Msg("succeeded event for unknown order")
			return WebhookClientError
		}
		return c.persistenceFailure(ctx, meta, err, "load order")
	}

	// Redelivery of an already-applied event: acknowledge with no side
	// effects. A canceled order stays canceled (AlreadyFinalized semantics).
	if order.Status != types.StatusPending {
		log.Info().Str("order_id", order.ID).Str("status", string(order.Status)).Str("payment_id", n.Object.ID).Msg("duplicate succeeded delivery, no-op")
		return WebhookOK
	}

	currency := n.Object.Amount.Currency
	if currency == "" {
		currency = "RUB"
	}
	if err := c.orders.RecordPayment(order.ID, n.Object.ID, amount, currency); err != nil {
		if errors.Is(err, store.ErrDuplicatePayment) {
			log.Info().Str("order_id", order.ID).Str("payment_id", n.Object.ID).Msg("payment already recorded")
		} else {
			return c.persistenceFailure(ctx, meta, err, "record payment")
		}
	}

	if err := c.orders.UpdateStatus(order.ID, types.StatusPaid); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyFinalized), errors.Is(err, store.ErrInvalidTransition):
			// Lost a race with a concurrent delivery; the first one won.
			log.Info().Str("order_id", order.ID).Msg("order already transitioned, no-op")
			return WebhookOK
		default:
			return c.persistenceFailure(ctx, meta, err, "mark order paid")
		}
	}

	svc, _ := catalog.Get(order.ServiceType)
	if svc.NeedsInput {
		return c.seedPromptInput(ctx, meta, order)
	}
	return c.enqueueImmediate(ctx, meta, order, n.Object.ID, amount)
}

// seedPromptInput starts the prompt-then-photo collection for services that
// need user material. The order stays paid until the photo arrives.
func (c *Controller) seedPromptInput(ctx context.Context, meta eventMeta, order *types.Order) WebhookOutcome {
	p := &types.PendingInput{
		UserID:  meta.telegramID,
		ChatID:  meta.chatID,
		OrderID: order.ID,
		Kind:    types.InputPrompt,
	}
	if err := c.pending.Await(p, c.pendingTTL); err != nil {
		return c.persistenceFailure(ctx, meta, err, "seed pending input")
	}

	if err := c.notifier.SendText(ctx, meta.chatID, messages.PaymentSucceededAwaitPrompt()); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to request prompt")
	}
	log.Info().Str("order_id", order.ID).Msg("order paid, awaiting prompt")
	return WebhookOK
}

func (c *Controller) enqueueImmediate(ctx context.Context, meta eventMeta, order *types.Order, paymentID string, amount int64) WebhookOutcome {
	job := types.FulfillmentJob{
		Type:        types.JobProcessOrder,
		OrderID:     order.ID,
		UserID:      meta.telegramID,
		ChatID:      meta.chatID,
		ServiceType: order.ServiceType,
		PaymentID:   paymentID,
	}
	if err := c.queue.Enqueue(ctx, job); err != nil {
		return c.persistenceFailure(ctx, meta, err, "enqueue fulfillment job")
	}

	if err := c.notifier.SendText(ctx, meta.chatID, messages.PaymentSucceeded(order.ID, amount)); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to send payment confirmation")
	}
	log.Info().Str("order_id", order.ID).Str("payment_id", paymentID).Msg("order paid, fulfillment enqueued")
	return WebhookOK
}

func (c *Controller) handleCanceled(ctx context.Context, n *payment.Notification) WebhookOutcome {
	meta, err := parseEventMeta(n)
	if err != nil {
		log.Warn().Str("payment_id", n.Object.ID).Msg("canceled event with incomplete metadata")
		return WebhookClientError
	}

	if err := c.orders.UpdateStatus(meta.orderID, types.StatusCanceled); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyFinalized), errors.Is(err, store.ErrInvalidTransition):
			log.Info().Str("order_id", meta.orderID).Msg("canceled event on settled order, no-op")
			return WebhookOK
		case errors.Is(err, store.ErrOrderNotFound):
			log.Warn().Str("order_id", meta.orderID).Msg("canceled event for unknown order")
			return WebhookClientError
		default:
			return c.persistenceFailure(ctx, meta, err, "mark order canceled")
		}
	}

	if err := c.notifier.SendText(ctx, meta.chatID, messages.PaymentCanceled()); err != nil {
		log.Error().Err(err).Str("order_id", meta.orderID).Msg("failed to send cancel notice")
	}
	log.Info().Str("order_id", meta.orderID).Msg("order canceled by payment event")
	return WebhookOK
}

// persistenceFailure converts a store or queue fault into a server-error
// outcome so the provider redelivers, after a best-effort delay notice to the
// user.
func (c *Controller) persistenceFailure(ctx context.Context, meta eventMeta, err error, op string) WebhookOutcome {
	log.Error().Err(err).Str("order_id", meta.orderID).Str("op", op).Msg("webhook reconciliation failed")
	if meta.chatID != 0 {
		if sendErr := c.notifier.SendText(ctx, meta.chatID, messages.ProcessingDelayed(meta.orderID)); sendErr != nil {
			log.Error().Err(sendErr).Str("order_id", meta.orderID).Msg("failed to send delay notice")
		}
	}
	return WebhookServerError
}

// HandlePrompt consumes an awaited text prompt. It reports whether the text
// was claimed by an order; false means nothing was awaited and the caller
// should fall through to its default reply.
func (c *Controller) HandlePrompt(ctx context.Context, userID, chatID int64, text string) (bool, error) {
	p, err := c.pending.Consume(userID, types.InputPrompt)
	if err != nil {
		return false, fmt.Errorf("consume pending prompt: %w", err)
	}
	if p == nil {
		return false, nil
	}

	if err := c.orders.SetInput(p.OrderID, map[string]interface{}{"prompt": text}); err != nil {
		return true, fmt.Errorf("store prompt: %w", err)
	}

	next := &types.PendingInput{
		UserID:  userID,
		ChatID:  chatID,
		OrderID: p.OrderID,
		Kind:    types.InputPhoto,
		Prompt:  text,
	}
	if err := c.pending.Await(next, c.pendingTTL); err != nil {
		return true, fmt.Errorf("seed pending photo: %w", err)
	}

	if err := c.notifier.SendText(ctx, chatID, messages.PromptReceivedSendPhoto()); err != nil {
		log.Error().Err(err).Str("order_id", p.OrderID).Msg("failed to request photo")
	}
	log.Info().Str("order_id", p.OrderID).Int64("user_id", userID).Msg("prompt collected, awaiting photo")
	return true, nil
}

// HandlePhoto consumes an awaited photo, completes the order's input payload
// and enqueues fulfillment. Consume-and-clear is atomic, so a duplicate photo
// message cannot enqueue the job twice.
func (c *Controller) HandlePhoto(ctx context.Context, userID, chatID int64, photoFileID string) (bool, error) {
	p, err := c.pending.Consume(userID, types.InputPhoto)
	if err != nil {
		return false, fmt.Errorf("consume pending photo: %w", err)
	}
	if p == nil {
		return false, nil
	}

	order, err := c.orders.GetOrder(p.OrderID)
	if err != nil {
		return true, fmt.Errorf("load order: %w", err)
	}

	input := map[string]interface{}{
		"prompt":        p.Prompt,
		"photo_file_id": photoFileID,
	}
	if err := c.orders.SetInput(order.ID, input); err != nil {
		return true, fmt.Errorf("store photo input: %w", err)
	}

	job := types.FulfillmentJob{
		Type:        types.JobProcessUniquePhoto,
		OrderID:     order.ID,
		UserID:      userID,
		ChatID:      chatID,
		ServiceType: order.ServiceType,
		Prompt:      p.Prompt,
		PhotoFileID: photoFileID,
	}
	if err := c.queue.Enqueue(ctx, job); err != nil {
		return true, fmt.Errorf("enqueue fulfillment job: %w", err)
	}

	if err := c.notifier.SendText(ctx, chatID, messages.PhotoReceivedProcessing()); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to confirm photo")
	}
	log.Info().Str("order_id", order.ID).Int64("user_id", userID).Msg("photo collected, fulfillment enqueued")
	return true, nil
}
