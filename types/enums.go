package types

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusFailed     OrderStatus = "failed"
	StatusCanceled   OrderStatus = "canceled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusPaid || next == StatusCanceled
	case StatusPaid:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

type InputKind string

const (
	InputPrompt InputKind = "prompt"
	InputPhoto  InputKind = "photo"
)

const (
	JobProcessOrder       string = "process_order"
	JobProcessUniquePhoto string = "process_unique_photo"
)

const (
	EventPaymentSucceeded string = "payment.succeeded"
	EventPaymentCanceled  string = "payment.canceled"
)
