package messages

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ai-mommy/photobooth-bot/types"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;x&lt;/b&gt;", Escape("<b>x</b>"))
	assert.Equal(t, "a &amp; b", Escape("  a & b  "))
	assert.Equal(t, "обычный текст", Escape("обычный текст"))
}

func TestPaymentLinkShowsMajorUnits(t *testing.T) {
	text := PaymentLink("Фотосессия беременности", 99900)
	assert.Contains(t, text, "999.00")
	assert.Contains(t, text, "Фотосессия беременности")
}

func TestPaymentSucceededMentionsOrder(t *testing.T) {
	text := PaymentSucceeded("order-1", 49900)
	assert.Contains(t, text, "order-1")
	assert.Contains(t, text, "499.00")
}

func TestResultsReadyListsAllLinks(t *testing.T) {
	text := ResultsReady([]string{"https://cdn/1.jpg", "https://cdn/2.jpg"})
	assert.Equal(t, 2, strings.Count(text, "href"))
}

func TestOrderLineStatusNames(t *testing.T) {
	line := OrderLine(1, "🤰 Фотосессия беременности", types.StatusCompleted)
	assert.Contains(t, line, "готов")

	// Unknown statuses fall back to the raw value instead of breaking.
	line = OrderLine(2, "x", types.OrderStatus("weird"))
	assert.Contains(t, line, "weird")
}

func TestOrderLinePaidShowsAmount(t *testing.T) {
	line := OrderLinePaid(1, "Готовое фото", types.StatusCompleted, 49900)
	assert.Contains(t, line, "оплачено 499.00")
	assert.Contains(t, line, "готов")
}
