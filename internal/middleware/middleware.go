package middleware

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/contextkeys"
	"github.com/ai-mommy/photobooth-bot/types"
)

type Middlewares struct {
	users types.UserStore
}

func NewMessageAnalyzer(users types.UserStore) *Middlewares {
	return &Middlewares{
		users: users,
	}
}

// TrackUserMiddleware upserts the sender so webhook reconciliation can reach
// users later even without a live update. Persistence failures do not block
// the update.
func (m *Middlewares) TrackUserMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		var (
			from   *models.User
			chatID int64
		)

		switch {
		case update.Message != nil && update.Message.From != nil:
			from = update.Message.From
			chatID = update.Message.Chat.ID
		case update.CallbackQuery != nil:
			from = &update.CallbackQuery.From
			chatID = getChatIDFromMaybeInaccessibleMessage(update.CallbackQuery.Message)
		}

		if from != nil && from.ID != 0 && chatID != 0 {
			user := types.User{
				UserID:    from.ID,
				ChatID:    chatID,
				Username:  from.Username,
				FirstName: from.FirstName,
				LastName:  from.LastName,
			}
			if err := m.users.UpsertUser(user); err != nil {
				log.Error().Err(err).Int64("user_id", from.ID).Msg("failed to upsert user")
			}
		}

		next(ctx, b, update)
	}
}

func getChatIDFromMaybeInaccessibleMessage(m models.MaybeInaccessibleMessage) int64 {
	if m.Message != nil {
		return m.Message.Chat.ID
	}
	if m.InaccessibleMessage != nil {
		return m.InaccessibleMessage.Chat.ID
	}
	return 0
}

// AnalyzeMessageMiddleware classifies the update and stores the classification
// in the context so the dispatcher does not repeat the type checks.
func (ma *Middlewares) AnalyzeMessageMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.CallbackQuery != nil && update.CallbackQuery.Data != "" {
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeClickButton)
			ctx = contextkeys.WithCallbackData(ctx, update.CallbackQuery.Data)
			next(ctx, b, update)
			return
		}

		if update.Message != nil && update.Message.Text != "" && strings.HasPrefix(update.Message.Text, "/") {
			next(contextkeys.WithMessageType(ctx, contextkeys.MessageTypeCommand), b, update)
			return
		}

		next(ma.analyzeMessage(ctx, update), b, update)
	}
}

func (ma *Middlewares) analyzeMessage(ctx context.Context, update *models.Update) context.Context {
	if update.Message == nil {
		return contextkeys.WithMessageType(ctx, contextkeys.MessageTypeUnknown)
	}

	msg := update.Message

	if len(msg.Photo) > 0 {
		ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypePhoto)
		return contextkeys.WithPhotoInfo(ctx, bestPhoto(msg.Photo))
	}

	if msg.Text != "" || msg.Caption != "" {
		return contextkeys.WithMessageType(ctx, contextkeys.MessageTypeText)
	}

	return contextkeys.WithMessageType(ctx, contextkeys.MessageTypeUnknown)
}

// bestPhoto picks the largest rendition Telegram offers for a photo message.
func bestPhoto(sizes []models.PhotoSize) *contextkeys.PhotoInfo {
	best := sizes[0]
	for i := 1; i < len(sizes); i++ {
		if sizes[i].FileSize > best.FileSize {
			best = sizes[i]
		}
	}
	return &contextkeys.PhotoInfo{
		FileID:   best.FileID,
		FileSize: int64(best.FileSize),
		Width:    best.Width,
		Height:   best.Height,
	}
}
