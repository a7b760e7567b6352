package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/catalog"
	"github.com/ai-mommy/photobooth-bot/internal/messages"
	"github.com/ai-mommy/photobooth-bot/store"
	"github.com/ai-mommy/photobooth-bot/types"
)

func (bh *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	fields := strings.Fields(strings.TrimSpace(update.Message.Text))
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}

	switch cmd {
	case "/start":
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      messages.StartWelcome(),
			ParseMode: messages.ParseModeHTML,
		})
		bh.sendMainMenu(ctx, b, chatID)
	case "/menu":
		bh.sendMainMenu(ctx, b, chatID)
	case "/orders":
		bh.handleOrders(ctx, b, update)
	default:
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      messages.ErrorUnknownCommand(),
			ParseMode: messages.ParseModeHTML,
		})
	}
}

// handleOrders lists the user's recent orders with their current status.
func (bh *Handlers) handleOrders(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := getUserIDFromUpdate(update)
	chatID := update.Message.Chat.ID

	orders, err := bh.orders.GetUserOrders(userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list orders")
		bh.sendError(ctx, b, chatID)
		return
	}
	if len(orders) == 0 {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      messages.OrdersEmpty(),
			ParseMode: messages.ParseModeHTML,
		})
		return
	}

	_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      bh.ordersText(orders),
		ParseMode: messages.ParseModeHTML,
	})
}

// ordersText renders the orders list, one row per order, with the paid amount
// for orders whose payment has been recorded.
func (bh *Handlers) ordersText(orders []*types.Order) string {
	lines := make([]string, 0, len(orders)+1)
	lines = append(lines, messages.OrdersHeader())
	for i, order := range orders {
		title := order.ServiceType
		if svc, ok := catalog.Get(order.ServiceType); ok {
			title = svc.Title
		}

		p, err := bh.orders.GetPaymentByOrder(order.ID)
		switch {
		case err == nil:
			lines = append(lines, messages.OrderLinePaid(i+1, title, order.Status, p.Amount))
		case errors.Is(err, store.ErrPaymentNotFound):
			lines = append(lines, messages.OrderLine(i+1, title, order.Status))
		default:
			log.Error().Err(err).Str("order_id", order.ID).Msg("failed to load payment for order")
			lines = append(lines, messages.OrderLine(i+1, title, order.Status))
		}
	}
	return strings.Join(lines, "\n")
}
