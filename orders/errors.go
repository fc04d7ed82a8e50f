package orders

import (
	"errors"
	"fmt"

	"agribridge/models"
)

var ErrOrderNotFound = errors.New("order not found")

// ValidationError blocks placement before any write happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

var (
	ErrEmptyCart         = &ValidationError{Reason: "cart is empty"}
	ErrIncompleteProfile = &ValidationError{Reason: "profile is missing name or phone number"}
)

// OrderCreationError means the header insert failed; nothing was written.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return "order creation failed: " + e.Err.Error()
}

func (e *OrderCreationError) Unwrap() error { return e.Err }

// OrderLineError means the item insert failed after the header was created.
// The header is deleted by the compensating step before this is returned;
// Compensated reports whether that rollback succeeded.
type OrderLineError struct {
	Err         error
	Compensated bool
}

func (e *OrderLineError) Error() string {
	return "order line creation failed: " + e.Err.Error()
}

func (e *OrderLineError) Unwrap() error { return e.Err }

// TransitionError rejects an illegal status move.
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %q -> %q", e.From, e.To)
}

// HistoryError means the status was written to the header but the audit log
// append failed, so the order and its history diverge. Callers must surface
// this to the admin rather than swallow it.
type HistoryError struct {
	OrderID string
	Status  models.OrderStatus
	Err     error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("status %q written for order %s but history append failed: %v", e.Status, e.OrderID, e.Err)
}

func (e *HistoryError) Unwrap() error { return e.Err }
