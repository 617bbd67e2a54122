package domain

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Order statuses. Transitions only move forward: the webhook drives
// pending -> paid, fulfilment drives the rest.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
)

var statusRank = map[string]int{
	OrderPending:   0,
	OrderPaid:      1,
	OrderConfirmed: 2,
	OrderShipped:   3,
	OrderDelivered: 4,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from -> to.
// Only strictly forward moves are allowed; no regressions, no self-loops.
func CanTransition(from, to string) bool {
	f, okF := statusRank[from]
	t, okT := statusRank[to]
	return okF && okT && t > f
}

type Order struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Total       decimal.Decimal `db:"total"`
	Status      string          `db:"status"`
	ShippingRaw string          `db:"shipping_address"` // structured snapshot, stored as JSON
	PaymentID   sql.NullString  `db:"payment_id"`       // provider-side payment id
	CreatedAt   string          `db:"created_at"`
}

// OrderItem snapshots the product price at order time; it is immutable
// once created even if the catalog price later changes.
type OrderItem struct {
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}
