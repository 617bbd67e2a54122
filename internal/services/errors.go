package services

import "errors"

// Checkout and cart error taxonomy. Validation errors surface directly to
// the caller; infrastructure errors are logged and surfaced generically.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrZeroTotal       = errors.New("order total is zero")
	ErrBelowMinimum    = errors.New("order total is below the processor minimum")
	ErrMissingAddress  = errors.New("shipping address required")
	ErrOrderItems      = errors.New("could not record order items")
	ErrPaymentProvider = errors.New("payment provider request failed")
)
