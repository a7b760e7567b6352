package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/messages"
)

// HandleText routes free text into the prompt-collection flow. Text outside
// of an awaited prompt gets a hint back to the menu.
func (bh *Handlers) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		text = strings.TrimSpace(update.Message.Caption)
	}
	if text == "" {
		return
	}

	handled, err := bh.controller.HandlePrompt(ctx, userID, chatID, text)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to handle prompt")
		bh.sendError(ctx, b, chatID)
		return
	}
	if handled {
		return
	}

	_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      messages.NoInputExpected(),
		ParseMode: messages.ParseModeHTML,
	})
}
