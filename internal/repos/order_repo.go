package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"cryptobazaar/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Order detail rows (joined with the catalog for display) ----------

type OrderItemRow struct {
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
	Subtotal  decimal.Decimal `db:"subtotal"`
}

// Create inserts the order header with status pending.
func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders(id, user_id, total, status, shipping_address, created_at)
	  VALUES(?, ?, ?, 'pending', ?, CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.Total, o.ShippingRaw)
	return errors.Wrap(err, "orders: create")
}

// InsertItems writes the line items with their snapshotted prices.
func (r *OrderRepo) InsertItems(items []domain.OrderItem) error {
	for _, it := range items {
		if _, err := r.db.Exec(`
		  INSERT INTO order_items(order_id, product_id, quantity, price)
		  VALUES(?, ?, ?, ?)
		`, it.OrderID, it.ProductID, it.Quantity, it.Price); err != nil {
			return errors.Wrap(err, "orders: insert item")
		}
	}
	return nil
}

// Delete removes an order and (via cascade) its items. Used as the
// compensating action when a later checkout step fails.
func (r *OrderRepo) Delete(orderID string) error {
	_, err := r.db.Exec(`DELETE FROM orders WHERE id = ?`, orderID)
	return errors.Wrap(err, "orders: delete")
}

// SetPaymentID stores the provider-side payment id on the order.
func (r *OrderRepo) SetPaymentID(orderID, paymentID string) error {
	_, err := r.db.Exec(`UPDATE orders SET payment_id = ? WHERE id = ?`, paymentID, orderID)
	return errors.Wrap(err, "orders: set payment id")
}

// MarkPaid transitions pending -> paid. The status guard makes redelivered
// webhook notifications a no-op.
func (r *OrderRepo) MarkPaid(orderID string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = 'paid' WHERE id = ? AND status = 'pending'`, orderID)
	return errors.Wrap(err, "orders: mark paid")
}

// UpdateStatus sets the status unconditionally; callers enforce the
// forward-only transition rule via domain.CanTransition.
func (r *OrderRepo) UpdateStatus(orderID, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	return errors.Wrap(err, "orders: update status")
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []OrderItemRow, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT id, user_id, total, status, shipping_address, payment_id, created_at
	  FROM orders WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
	  SELECT oi.product_id, COALESCE(p.name, oi.product_id) AS name,
	         oi.quantity, oi.price, (oi.quantity * oi.price) AS subtotal
	  FROM order_items oi
	  LEFT JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY oi.product_id
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT id, user_id, total, status, shipping_address, payment_id, created_at
	  FROM orders
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT id, user_id, total, status, shipping_address, payment_id, created_at
	  FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}
