package messages

import (
	"fmt"
	"strings"

	"github.com/ai-mommy/photobooth-bot/internal/payment"
	"github.com/ai-mommy/photobooth-bot/types"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

func StartWelcome() string {
	return "👋 <b>Привет!</b>\nЯ превращаю ваши фото в студийные снимки.\n\n" +
		"📸 Выберите услугу в меню, оплатите и получите готовые кадры прямо в чат."
}

func MainMenuText() string {
	return "✨ <b>Главное меню</b>\nВыберите, что хотите получить:"
}

func ReadySessionsText() string {
	return "Целая история в одном стиле - как после настоящей студийной съёмки.\nЗагрузите ваши фото и коллекция трогательных кадров уже здесь ✨"
}

func ReadyPhotoText() string {
	return "Хотите один идеальный кадр? \nВыберите атмосферу и получите его без лишних слов🌷"
}

func UniquePhotoText() string {
	return "🎨 <b>Уникальное фото</b>\nОпишите задумку, пришлите фото - и AI сделает остальное."
}

func PaymentLink(description string, amountMinor int64) string {
	return fmt.Sprintf("💳 %s\n\n📊 Сумма: <b>%s ₽</b>\n\nНажмите кнопку ниже чтобы оплатить:",
		Escape(description), payment.FormatMajorUnits(amountMinor))
}

func PaymentCreateFailed() string {
	return "❌ <b>Не удалось создать платеж</b>\nПожалуйста, попробуйте снова."
}

func PaymentSucceeded(orderID string, amountMinor int64) string {
	return fmt.Sprintf("✅ <b>Оплата прошла успешно!</b>\n\nНомер заказа: <code>%s</code>\nСумма: %s ₽\n\nОбработка начнется в ближайшее время...",
		Escape(orderID), payment.FormatMajorUnits(amountMinor))
}

func PaymentSucceededAwaitPrompt() string {
	return "✅ <b>Оплата прошла успешно!</b>\n\nНапишите, как нужно обработать фото.\nОпишите подробно, что вы хотите видеть на фотографии."
}

func PaymentCanceled() string {
	return "❌ <b>Платеж отменен.</b>\n\nЕсли это произошло по ошибке, попробуйте заново."
}

func ProcessingDelayed(orderID string) string {
	return fmt.Sprintf("⚠️ Платеж получен, но произошла ошибка обработки.\nНаша команда уже разбирается! Номер заказа: <code>%s</code>", Escape(orderID))
}

func PromptReceivedSendPhoto() string {
	return "📸 Отлично! Теперь отправьте фото для обработки."
}

func PhotoReceivedProcessing() string {
	return "✅ <b>Фото получено!</b>\n\n⏳ Обработка началась. Это может занять несколько минут..."
}

func ProcessingStarted() string {
	return "⏳ Ваш заказ начал обрабатываться. Это займет некоторое время..."
}

func ResultsReady(urls []string) string {
	lines := make([]string, 0, len(urls))
	for i, u := range urls {
		lines = append(lines, fmt.Sprintf("%d. <a href=\"%s\">Фото %d</a>", i+1, Escape(u), i+1))
	}
	return "✅ <b>Обработка завершена!</b>\n\n📸 Ваши фото готовы:\n" + strings.Join(lines, "\n")
}

func ProcessingFailed() string {
	return "🚫 <b>Не удалось обработать заказ</b>\nМы уже знаем о проблеме. Попробуйте позже."
}

func OrdersEmpty() string {
	return "📭 У вас пока нет заказов."
}

func OrdersHeader() string {
	return "🗂 <b>Ваши заказы</b>\n"
}

func OrderLine(index int, serviceTitle string, status types.OrderStatus) string {
	return fmt.Sprintf("%d. %s — %s", index, Escape(serviceTitle), statusName(status))
}

// OrderLinePaid is the orders-list row for an order with a recorded payment.
func OrderLinePaid(index int, serviceTitle string, status types.OrderStatus, amountMinor int64) string {
	return fmt.Sprintf("%d. %s — %s, оплачено %s ₽",
		index, Escape(serviceTitle), statusName(status), payment.FormatMajorUnits(amountMinor))
}

func statusName(status types.OrderStatus) string {
	switch status {
	case types.StatusPending:
		return "ожидает оплаты"
	case types.StatusPaid:
		return "оплачен"
	case types.StatusProcessing:
		return "в обработке"
	case types.StatusCompleted:
		return "готов ✅"
	case types.StatusFailed:
		return "ошибка 🚫"
	case types.StatusCanceled:
		return "отменен"
	default:
		return string(status)
	}
}

func NoInputExpected() string {
	return "🤖 Сейчас я не жду от вас сообщений.\nВыберите услугу в меню: /start"
}

func ErrorDefault() string {
	return "🚫 <b>Ошибка</b>\nПопробуйте ещё раз."
}

func ErrorUnknownCommand() string {
	return "❓ <b>Команда не найдена</b>"
}

func BtnPay() string        { return "💰 Оплатить" }
func BtnCancel() string     { return "❌ Отмена" }
func BtnBackToMenu() string { return "🔙 В главное меню" }

func BtnReadySessions() string { return "📷 Готовые фотосессии" }
func BtnReadyPhoto() string    { return "🖼 Готовое фото" }
func BtnUniquePhoto() string   { return "✨ Сделать уникальное фото" }
func BtnGetUnique() string     { return "Получить уникальное фото" }
