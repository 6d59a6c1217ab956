package domain

import (
	"errors"
	"fmt"
)

// Expected, user-recoverable outcomes are sentinel errors so handlers can map
// them to specific responses instead of a generic failure.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyClaimed = errors.New("order already accepted by another courier")
	ErrNotCourier     = errors.New("order is assigned to a different courier")
	ErrUnavailable    = errors.New("product is not available")
	ErrForbidden      = errors.New("operation not allowed for this role")
)

// ValidationError marks bad request input (missing address, bad phone).
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransitionError reports a state-machine violation on an order.
type TransitionError struct {
	OrderID string
	From    OrderStatus
	To      OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %s: cannot move from %s to %s", e.OrderID, e.From, e.To)
}
