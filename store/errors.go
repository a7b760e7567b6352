package store

import "errors"

var (
	ErrKeyNotFound = errors.New("key not found")

	// ErrOrderNotFound is returned when no order exists for the given id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned when the requested status is not
	// reachable from the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyFinalized is returned for transition attempts on orders in a
	// terminal status. Callers treat it as benign duplicate delivery.
	ErrAlreadyFinalized = errors.New("order already finalized")

	// ErrDuplicatePayment is returned when a payment record already exists
	// for the order. Webhook redelivery hits this path.
	ErrDuplicatePayment = errors.New("payment already recorded")

	// ErrPaymentNotFound is returned when an order has no recorded payment.
	ErrPaymentNotFound = errors.New("payment not found")
)
