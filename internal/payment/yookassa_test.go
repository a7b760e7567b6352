package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayment(t *testing.T) {
	var gotReq createPaymentReq
	var gotIdempotenceKey string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments", r.URL.Path)
		gotIdempotenceKey = r.Header.Get("Idempotence-Key")
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(paymentResp{
			ID:     "pay-123",
			Status: "pending",
			Confirmation: &confirmationBody{
				Type:            "redirect",
				ConfirmationURL: "https://yookassa.example/confirm/pay-123",
			},
		})
	}))
	defer srv.Close()

	client := NewClient("shop-1", "sk-secret", srv.Client()).WithBaseURL(srv.URL)

	intent, err := client.CreatePayment(context.Background(), 99900, "Фотосессия", "https://t.me/bot", map[string]string{
		"orderId": "order-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "pay-123", intent.ID)
	assert.Equal(t, "https://yookassa.example/confirm/pay-123", intent.ConfirmationURL)

	assert.Equal(t, "999.00", gotReq.Amount.Value)
	assert.Equal(t, "RUB", gotReq.Amount.Currency)
	assert.True(t, gotReq.Capture)
	assert.Equal(t, "redirect", gotReq.Confirmation.Type)
	assert.Equal(t, "https://t.me/bot", gotReq.Confirmation.ReturnURL)
	assert.Equal(t, "order-1", gotReq.Metadata["orderId"])

	assert.NotEmpty(t, gotIdempotenceKey)
	assert.Equal(t, "shop-1", gotUser)
	assert.Equal(t, "sk-secret", gotPass)
}

func TestCreatePaymentFreshIdempotenceKeys(t *testing.T) {
	keys := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys[r.Header.Get("Idempotence-Key")] = true
		json.NewEncoder(w).Encode(paymentResp{
			ID:           "pay-x",
			Confirmation: &confirmationBody{ConfirmationURL: "https://confirm"},
		})
	}))
	defer srv.Close()

	client := NewClient("shop", "key", srv.Client()).WithBaseURL(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := client.CreatePayment(context.Background(), 1000, "x", "", nil)
		require.NoError(t, err)
	}
	// Each purchase attempt carries its own key.
	assert.Len(t, keys, 3)
}

func TestCreatePaymentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResp{Description: "Invalid shop credentials"})
	}))
	defer srv.Close()

	client := NewClient("shop", "bad-key", srv.Client()).WithBaseURL(srv.URL)
	_, err := client.CreatePayment(context.Background(), 1000, "x", "", nil)

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusBadRequest, gerr.StatusCode)
	assert.Equal(t, "Invalid shop credentials", gerr.Description)
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	client := NewClient("shop", "key", nil)
	_, err := client.CreatePayment(context.Background(), 0, "x", "", nil)
	assert.Error(t, err)
	_, err = client.CreatePayment(context.Background(), -100, "x", "", nil)
	assert.Error(t, err)
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/pay-9", r.URL.Path)
		json.NewEncoder(w).Encode(paymentResp{ID: "pay-9", Status: "succeeded", Paid: true})
	}))
	defer srv.Close()

	client := NewClient("shop", "key", srv.Client()).WithBaseURL(srv.URL)
	st, err := client.GetPayment(context.Background(), "pay-9")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", st.Status)
	assert.True(t, st.Paid)
}
