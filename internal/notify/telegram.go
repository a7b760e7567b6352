package notify

import (
	"context"
	"time"

	"github.com/ai-mommy/photobooth-bot/internal/messages"
	"github.com/ai-mommy/photobooth-bot/types"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramNotifier sends user notifications outside of update handlers
// (webhook reconciliation, fulfillment results). Every send is bounded so a
// slow Telegram API cannot stall unrelated work.
type TelegramNotifier struct {
	bot     *bot.Bot
	timeout time.Duration
}

func NewTelegramNotifier(b *bot.Bot) *TelegramNotifier {
	return &TelegramNotifier{
		bot:     b,
		timeout: 10 * time.Second,
	}
}

func (n *TelegramNotifier) SendText(ctx context.Context, chatID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	return err
}

func (n *TelegramNotifier) SendTextWithButtons(ctx context.Context, chatID int64, text string, buttons []types.Button) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: BuildInlineKeyboard(buttons).InlineKeyboard,
		},
	})
	return err
}

func (n *TelegramNotifier) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	_, err := n.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &models.InputFileString{Data: photoURL},
		Caption:   caption,
		ParseMode: messages.ParseModeHTML,
	})
	return err
}

// BuildInlineKeyboard lays buttons out one per row, the way the menus and
// payment links are shown.
func BuildInlineKeyboard(buttons []types.Button) models.InlineKeyboardMarkup {
	pad := func(s string) string { return " " + s + " " }
	rows := make([][]models.InlineKeyboardButton, 0, len(buttons))
	for _, button := range buttons {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         pad(button.Text),
			CallbackData: button.CallbackData,
			URL:          button.URL,
		}})
	}

	return models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}
