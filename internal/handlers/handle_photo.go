package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/contextkeys"
	"github.com/ai-mommy/photobooth-bot/internal/messages"
)

// HandlePhoto routes photos into the photo-collection flow. The middleware
// already picked the largest rendition.
func (bh *Handlers) HandlePhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	info, ok := contextkeys.GetPhotoInfo(ctx)
	if !ok || info.FileID == "" {
		return
	}

	handled, err := bh.controller.HandlePhoto(ctx, userID, chatID, info.FileID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to handle photo")
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
