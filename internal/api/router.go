// Package api exposes the HTTP surface: the payment provider webhook, an
// optional Telegram webhook mount and a health probe.
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/lifecycle"
	"github.com/ai-mommy/photobooth-bot/internal/payment"
)

// Reconciler applies one parsed payment event to the order lifecycle.
type Reconciler interface {
	HandlePaymentEvent(ctx context.Context, n *payment.Notification) lifecycle.WebhookOutcome
}

type Router struct {
	controller    Reconciler
	webhookSecret string
	telegram      http.HandlerFunc
}

// NewRouter wires webhook handlers. telegram may be nil when the bot runs on
// long polling.
func NewRouter(controller Reconciler, webhookSecret string, telegram http.HandlerFunc) *Router {
	return &Router{
		controller:    controller,
		webhookSecret: webhookSecret,
		telegram:      telegram,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/healthz", r.health)
	engine.POST("/payments/webhook", r.paymentWebhook)
	if r.telegram != nil {
		engine.POST("/telegram/webhook", gin.WrapF(r.telegram))
	}
}

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// maxWebhookBody caps provider deliveries; real notifications are well under
// a kilobyte.
const maxWebhookBody = 64 << 10

// paymentWebhook verifies, parses and reconciles one provider delivery. The
// response code steers the provider's retry policy: 2xx acknowledges, 4xx
// stops redelivery, 5xx requests it.
func (r *Router) paymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if !payment.VerifySignature(r.webhookSecret, body, c.GetHeader(payment.SignatureHeader)) {
		log.Warn().Str("remote", c.ClientIP()).Msg("payment webhook with bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	n, err := payment.ParseNotification(body)
	if err != nil {
		log.Warn().Err(err).Str("remote", c.ClientIP()).Msg("malformed payment webhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed notification"})
		return
	}

	switch r.controller.HandlePaymentEvent(c.Request.Context(), n) {
	case lifecycle.WebhookOK:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case lifecycle.WebhookClientError:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unprocessable notification"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temporary failure"})
	}
}
