package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ai-mommy/photobooth-bot/internal/catalog"
	"github.com/ai-mommy/photobooth-bot/internal/contextkeys"
	"github.com/ai-mommy/photobooth-bot/internal/messages"
)

func pad(s string) string { return "   " + s + "   " }

func (bh *Handlers) buildMainMenuKeyboard() models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{{Text: pad(messages.BtnReadySessions()), CallbackData: "menu_sessions"}},
		{{Text: pad(messages.BtnReadyPhoto()), CallbackData: "menu_ready_photo"}},
		{{Text: pad(messages.BtnUniquePhoto()), CallbackData: "menu_unique"}},
	}
	return models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (bh *Handlers) buildSessionsKeyboard() models.InlineKeyboardMarkup {
	sessions := catalog.Sessions()
	rows := make([][]models.InlineKeyboardButton, 0, len(sessions)+1)
	for _, svc := range sessions {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: pad(svc.Title), CallbackData: "buy:" + svc.Type},
		})
	}
	rows = append(rows, backRow())
	return models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func backRow() []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		{Text: pad(messages.BtnBackToMenu()), CallbackData: "menu_back"},
	}
}

func (bh *Handlers) sendMainMenu(ctx context.Context, b *bot.Bot, chatID int64) {
	_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      messages.MainMenuText(),
		ParseMode: messages.ParseModeHTML,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: bh.buildMainMenuKeyboard().InlineKeyboard,
		},
	})
}

// HandleMenuClick navigates the service menu by editing the menu message in
// place. Purchases go through HandleClickButton.
func (bh *Handlers) HandleMenuClick(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		return
	}
	data, _ := contextkeys.GetCallbackData(ctx)
	if data == "" {
		data = update.CallbackQuery.Data
	}
	data = strings.TrimSpace(data)

	if update.CallbackQuery.Message.Message == nil {
		_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
		return
	}
	msg := update.CallbackQuery.Message.Message

	text := messages.MainMenuText()
	keyboard := bh.buildMainMenuKeyboard()

	switch data {
	case "menu_sessions":
		text = messages.ReadySessionsText()
		keyboard = bh.buildSessionsKeyboard()
	case "menu_ready_photo":
		svc, _ := catalog.Get(catalog.ReadyPhoto)
		text = messages.ReadyPhotoText()
		keyboard = models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: pad(svc.Title), CallbackData: "buy:" + svc.Type}},
			backRow(),
		}}
	case "menu_unique":
		text = messages.UniquePhotoText()
		keyboard = models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: pad(messages.BtnGetUnique()), CallbackData: "buy:" + catalog.CustomUnique}},
			{{Text: pad("🎨 Генерация по описанию"), CallbackData: "buy:" + catalog.CustomEdit}},
			backRow(),
		}}
	case "menu_back":
	default:
	}

	_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	_, _ = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: keyboard.InlineKeyboard,
		},
	})
}
