package types

import (
	"context"
	"time"
)

type Order struct {
	ID          string                 `json:"id"`
	UserID      int64                  `json:"user_id"`
	ServiceType string                 `json:"service_type"`
	Status      OrderStatus            `json:"status"`
	Input       map[string]interface{} `json:"input,omitempty"`
	Result      []string               `json:"result,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type Payment struct {
	ID                int64     `json:"id"`
	OrderID           string    `json:"order_id"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	CreatedAt         time.Time `json:"created_at"`
}

// PendingInput marks that the bot expects a specific follow-up message from a
// user. Absence of a record is the normal state. Prompt collected at the text
// stage is carried into the photo stage record.
type PendingInput struct {
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	OrderID   string    `json:"order_id"`
	Kind      InputKind `json:"kind"`
	Prompt    string    `json:"prompt,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record outlived its TTL. Consumers must treat
// an expired record as absent even if the store has not evicted it yet.
func (p *PendingInput) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

type FulfillmentJob struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	UserID      int64     `json:"user_id"`
	ChatID      int64     `json:"chat_id"`
	ServiceType string    `json:"service_type"`
	PaymentID   string    `json:"payment_id,omitempty"`
	Prompt      string    `json:"prompt,omitempty"`
	PhotoFileID string    `json:"photo_file_id,omitempty"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

type OrderStore interface {
	CreateOrder(userID int64, serviceType string) (*Order, error)
	GetOrder(orderID string) (*Order, error)
	GetUserOrders(userID int64) ([]*Order, error)

	// UpdateStatus applies a transition guarded by the status graph. It
	// returns store.ErrAlreadyFinalized when the order is terminal and
	// store.ErrInvalidTransition for any other illegal edge.
	UpdateStatus(orderID string, status OrderStatus) error
	SetInput(orderID string, input map[string]interface{}) error
	MarkCompleted(orderID string, result []string) error

	// RecordPayment is insert-once per order: a second call for the same
	// order returns store.ErrDuplicatePayment.
	RecordPayment(orderID, providerPaymentID string, amount int64, currency string) error
	GetPaymentByOrder(orderID string) (*Payment, error)
}

type PendingInputStore interface {
	Await(state *PendingInput, ttl time.Duration) error
	// Consume atomically reads and clears the record; returns (nil, nil)
	// when nothing is awaited.
	Consume(userID int64, kind InputKind) (*PendingInput, error)
	IsAwaiting(userID int64, kind InputKind) (bool, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, job FulfillmentJob) error
}

type Button struct {
	Text         string
	CallbackData string
	URL          string
}

// Notifier is the outbound chat transport used outside of bot handlers
// (webhook reconciliation, fulfillment results).
type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendTextWithButtons(ctx context.Context, chatID int64, text string, buttons []Button) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error
}
