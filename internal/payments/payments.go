// Package payments talks to a NOWPayments-style hosted crypto payment
// processor: invoices are created in a fiat reference currency, then a
// payment is pinned to one settlement cryptocurrency, and the processor
// confirms asynchronously via a signed IPN webhook.
package payments

import (
	"context"
	"encoding/json"
)

// Fixed currencies: the storefront prices in USD and settles in MATIC.
const (
	PriceCurrency = "usd"
	PayCurrency   = "matic"
)

// IPN payment status that confirms a completed payment.
const StatusFinished = "finished"

type InvoiceRequest struct {
	PriceAmount      string `json:"price_amount"`
	PriceCurrency    string `json:"price_currency"`
	OrderID          string `json:"order_id"`
	OrderDescription string `json:"order_description"`
	IPNCallbackURL   string `json:"ipn_callback_url"`
	SuccessURL       string `json:"success_url"`
	CancelURL        string `json:"cancel_url"`
}

// Invoice is the provider-side object representing an amount owed in the
// reference currency. The id arrives as a number or a string depending on
// the endpoint, hence json.Number.
type Invoice struct {
	ID         json.Number `json:"id"`
	InvoiceURL string      `json:"invoice_url"`
}

// Payment pins an invoice to one settlement currency.
type Payment struct {
	PaymentID json.Number `json:"payment_id"`
}

// IPNEvent is the verified webhook payload.
type IPNEvent struct {
	PaymentID     json.Number `json:"payment_id"`
	PaymentStatus string      `json:"payment_status"`
	OrderID       string      `json:"order_id"`
}

// Provider is the outbound surface the checkout flow depends on.
type Provider interface {
	CreateInvoice(ctx context.Context, req InvoiceRequest) (Invoice, error)
	PinPayment(ctx context.Context, invoiceID, payCurrency string) (Payment, error)
}
