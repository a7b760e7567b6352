package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/catalog"
	"github.com/ai-mommy/photobooth-bot/internal/contextkeys"
)

// HandleClickButton handles non-menu callbacks: service purchases and order
// cancellation.
func (bh *Handlers) HandleClickButton(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	userID := update.CallbackQuery.From.ID
	chatID := getChatIDFromUpdate(update)
	if chatID == 0 {
		chatID = userID
	}

	data, _ := contextkeys.GetCallbackData(ctx)
	if data == "" {
		data = update.CallbackQuery.Data
	}
	data = strings.TrimSpace(data)

	switch {
	case strings.HasPrefix(data, "buy:"):
		bh.handleBuy(ctx, b, update, userID, chatID, strings.TrimPrefix(data, "buy:"))
	case strings.HasPrefix(data, "cancel_order:"):
		bh.handleCancel(ctx, b, update, chatID, strings.TrimPrefix(data, "cancel_order:"))
	default:
		_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	}
}

func (bh *Handlers) handleBuy(ctx context.Context, b *bot.Bot, update *models.Update, userID, chatID int64, serviceType string) {
	if _, ok := catalog.Get(serviceType); !ok {
		_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
		return
	}

	_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	if err := bh.controller.InitiateOrder(ctx, userID, chatID, serviceType); err != nil {
		// Gateway failures already produced a user-facing message.
		log.Error().Err(err).Int64("user_id", userID).Str("service_type", serviceType).Msg("failed to initiate order")
	}
}

func (bh *Handlers) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update, chatID int64, orderID string) {
	_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	if err := bh.controller.CancelOrder(ctx, chatID, orderID); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("failed to cancel order")
		bh.sendError(ctx, b, chatID)
	}
}
