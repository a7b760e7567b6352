package payment

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.yookassa.ru/v3"

// GatewayError is a rejected provider request: bad amount, auth failure or a
// provider-side 5xx. It is surfaced to the caller and never retried here.
type GatewayError struct {
	StatusCode  int
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("yookassa: %d %s", e.StatusCode, e.Description)
}

type Client struct {
	shopID    string
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(shopID, secretKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		shopID:    shopID,
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http:      httpClient,
	}
}

// WithBaseURL overrides the API endpoint; used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type PaymentIntent struct {
	ID              string
	ConfirmationURL string
}

type PaymentStatus struct {
	ID     string
	Status string
	Paid   bool
}

type amountBody struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type confirmationBody struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type createPaymentReq struct {
	Amount       amountBody        `json:"amount"`
	Capture      bool              `json:"capture"`
	Confirmation confirmationBody  `json:"confirmation"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type paymentResp struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Confirmation *confirmationBody `json:"confirmation,omitempty"`
	Description  string            `json:"description,omitempty"`
}

type errorResp struct {
	Description string `json:"description"`
}

// CreatePayment creates a redirect-confirmed payment. amount is in minor
// units. Each call carries a fresh Idempotence-Key, so a provider-side retry
// of this request cannot double-charge, while a new purchase attempt always
// gets a new key.
func (c *Client) CreatePayment(ctx context.Context, amount int64, description, returnURL string, metadata map[string]string) (*PaymentIntent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("yookassa: non-positive amount %d", amount)
	}
	if len(description) > 128 {
		description = description[:128]
	}

	body := createPaymentReq{
		Amount:       amountBody{Value: FormatMajorUnits(amount), Currency: "RUB"},
		Capture:      true,
		Confirmation: confirmationBody{Type: "redirect", ReturnURL: returnURL},
		Description:  description,
		Metadata:     metadata,
	}
	j, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(j))
	if err != nil {
		return nil, fmt.Errorf("create payment request: %w", err)
	}
	httpReq.SetBasicAuth(c.shopID, c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", newIdempotenceKey())

	out, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if out.Confirmation == nil || out.Confirmation.ConfirmationURL == "" {
		return nil, &GatewayError{StatusCode: http.StatusOK, Description: "no confirmation URL in response"}
	}
	return &PaymentIntent{ID: out.ID, ConfirmationURL: out.Confirmation.ConfirmationURL}, nil
}

// GetPayment polls a payment's state; fallback for missed webhooks.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*PaymentStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("create payment status request: %w", err)
	}
	httpReq.SetBasicAuth(c.shopID, c.secretKey)

	out, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	return &PaymentStatus{ID: out.ID, Status: out.Status, Paid: out.Paid}, nil
}

func (c *Client) do(req *http.Request) (*paymentResp, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &GatewayError{Description: err.Error()}
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		var e errorResp
		_ = json.Unmarshal(raw, &e)
		if e.Description == "" {
			e.Description = string(raw)
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Description: e.Description}
	}

	var out paymentResp
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal payment response: %w", err)
	}
	return &out, nil
}

// newIdempotenceKey builds a timestamp plus random token. Keys are never
// reused across distinct purchase attempts.
func newIdempotenceKey() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
