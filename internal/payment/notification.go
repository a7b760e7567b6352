package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedNotification is returned for webhook payloads missing required
// fields. The webhook handler answers such requests with a client error and
// mutates nothing.
var ErrMalformedNotification = errors.New("malformed payment notification")

// SignatureHeader carries the provider's HMAC of the request body.
const SignatureHeader = "Notification-Api-Signature"

type Notification struct {
	Type   string             `json:"type"`
	Event  string             `json:"event"`
	Object NotificationObject `json:"object"`
}

type NotificationObject struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Amount   NotificationPrice `json:"amount"`
	Metadata map[string]string `json:"metadata"`
}

type NotificationPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

func (o NotificationObject) Meta(key string) string {
	return strings.TrimSpace(o.Metadata[key])
}

// ParseNotification decodes and structurally validates a webhook body. Event
// kind semantics are left to the lifecycle controller; unknown events are
// valid notifications.
func ParseNotification(body []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, ErrMalformedNotification
	}
	if n.Type != "notification" || strings.TrimSpace(n.Event) == "" {
		return nil, ErrMalformedNotification
	}
	if strings.TrimSpace(n.Object.ID) == "" {
		return nil, ErrMalformedNotification
	}
	return &n, nil
}

// VerifySignature checks the provider HMAC-SHA256 over the raw body. An empty
// secret disables verification (local/dev mode); the structural checks in
// ParseNotification still apply.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
