package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-mommy/photobooth-bot/internal/lifecycle"
	"github.com/ai-mommy/photobooth-bot/internal/payment"
)

type fakeReconciler struct {
	outcome lifecycle.WebhookOutcome
	last    *payment.Notification
	calls   int
}

func (f *fakeReconciler) HandlePaymentEvent(_ context.Context, n *payment.Notification) lifecycle.WebhookOutcome {
	f.calls++
	f.last = n
	return f.outcome
}

func newTestEngine(rec *fakeReconciler, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewRouter(rec, secret, nil).SetUp(engine)
	return engine
}

func post(engine *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(payment.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

var validBody = []byte(`{
	"type": "notification",
	"event": "payment.succeeded",
	"object": {
		"id": "pay-1",
		"status": "succeeded",
		"amount": {"value": "999.00", "currency": "RUB"},
		"metadata": {"orderId": "order-1", "telegramId": "42", "chatId": "42", "packId": "session_pregnancy"}
	}
}`)

func TestPaymentWebhookOK(t *testing.T) {
	rec := &fakeReconciler{outcome: lifecycle.WebhookOK}
	engine := newTestEngine(rec, "")

	w := post(engine, validBody, "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, rec.calls)
	assert.Equal(t, "payment.succeeded", rec.last.Event)
}

func TestPaymentWebhookSignature(t *testing.T) {
	rec := &fakeReconciler{outcome: lifecycle.WebhookOK}
	engine := newTestEngine(rec, "hook-secret")

	w := post(engine, validBody, signBody("hook-secret", validBody))
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(engine, validBody, signBody("wrong-secret", validBody))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(engine, validBody, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Only the correctly signed delivery reached the controller.
	assert.Equal(t, 1, rec.calls)
}

func TestPaymentWebhookMalformed(t *testing.T) {
	rec := &fakeReconciler{outcome: lifecycle.WebhookOK}
	engine := newTestEngine(rec, "")

	w := post(engine, []byte(`{"type":"refund"}`), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, rec.calls)
}

func TestPaymentWebhookOversizedBody(t *testing.T) {
	rec := &fakeReconciler{outcome: lifecycle.WebhookOK}
	engine := newTestEngine(rec, "")

	w := post(engine, bytes.Repeat([]byte("a"), maxWebhookBody+1), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, rec.calls)
}

func TestPaymentWebhookOutcomeMapping(t *testing.T) {
	for outcome, wantCode := range map[lifecycle.WebhookOutcome]int{
		lifecycle.WebhookOK:          http.StatusOK,
		lifecycle.WebhookClientError: http.StatusBadRequest,
		lifecycle.WebhookServerError: http.StatusInternalServerError,
	} {
		rec := &fakeReconciler{outcome: outcome}
		w := post(newTestEngine(rec, ""), validBody, "")
		assert.Equal(t, wantCode, w.Code)
	}
}

func TestHealthz(t *testing.T) {
	engine := newTestEngine(&fakeReconciler{}, "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
