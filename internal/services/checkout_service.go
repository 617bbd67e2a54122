package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cryptobazaar/internal/domain"
	"cryptobazaar/internal/payments"
	"cryptobazaar/internal/repos"
)

// MinimumTotal is the processor's minimum charge in the reference currency.
var MinimumTotal = decimal.NewFromInt(2)

// CheckoutService converts a user's persisted cart into a pending order and
// hands off to the hosted payment page. The multi-step flow runs as a saga:
// each step that creates state pairs with a compensation, unwound in reverse
// on the first failure. The cart is cleared only after the provider
// handshake succeeds, so a provider failure never loses the cart.
type CheckoutService struct {
	Carts    *repos.CartRepo
	Orders   *repos.OrderRepo
	Provider payments.Provider

	// BaseURL is the public origin for callback and redirect URLs.
	BaseURL string
}

func NewCheckoutService(carts *repos.CartRepo, orders *repos.OrderRepo, provider payments.Provider, baseURL string) *CheckoutService {
	return &CheckoutService{Carts: carts, Orders: orders, Provider: provider, BaseURL: baseURL}
}

type CheckoutInput struct {
	UserID          string
	ShippingAddress json.RawMessage
	// Currency is accepted for forward compatibility and ignored: the
	// reference currency is fixed to USD and settlement to MATIC.
	Currency string
}

type CheckoutResult struct {
	OrderID   string
	HostedURL string
}

func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if in.UserID == "" {
		return CheckoutResult{}, ErrUnauthenticated
	}

	rows, err := s.Carts.ItemsByUser(in.UserID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if len(rows) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	// Filter to valid lines; purge the rest from the mirror as cleanup.
	valid := make([]domain.CartItem, 0, len(rows))
	for _, r := range rows {
		if r.Valid() {
			valid = append(valid, r.Item())
		}
	}
	if len(valid) < len(rows) {
		if _, err := s.Carts.DeleteInvalid(in.UserID); err != nil {
			logrus.WithError(err).Warn("checkout: purge invalid cart lines")
		}
	}
	if len(valid) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	total := decimal.Zero
	for _, it := range valid {
		total = total.Add(it.Subtotal())
	}
	if total.IsZero() {
		return CheckoutResult{}, ErrZeroTotal
	}
	if total.LessThan(MinimumTotal) {
		return CheckoutResult{}, ErrBelowMinimum
	}

	// Absent field, whitespace, JSON null and the empty JSON string all
	// count as no address.
	switch strings.TrimSpace(string(in.ShippingAddress)) {
	case "", "null", `""`:
		return CheckoutResult{}, ErrMissingAddress
	}

	orderID := uuid.NewString()
	order := domain.Order{
		ID:          orderID,
		UserID:      in.UserID,
		Total:       total,
		ShippingRaw: string(in.ShippingAddress),
	}

	items := make([]domain.OrderItem, 0, len(valid))
	for _, it := range valid {
		items = append(items, domain.OrderItem{
			OrderID:   orderID,
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			Price:     it.Product.Price, // snapshot at order time
		})
	}

	var hostedURL string
	failedStep, err := runSaga([]sagaStep{
		{
			name: "order.create",
			run:  func() error { return s.Orders.Create(order) },
			compensate: func() {
				if derr := s.Orders.Delete(orderID); derr != nil {
					logrus.WithError(derr).WithField("order_id", orderID).Error("checkout: compensate order delete")
				}
			},
		},
		{
			name: "order.items",
			run:  func() error { return s.Orders.InsertItems(items) },
			// items cascade with the order delete above
		},
		{
			name: "provider.handshake",
			run: func() error {
				url, herr := s.handshake(ctx, orderID, total)
				hostedURL = url
				return herr
			},
		},
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"order_id": orderID, "step": failedStep,
		}).Error("checkout: saga failed")
		switch failedStep {
		case "order.items":
			return CheckoutResult{}, ErrOrderItems
		case "provider.handshake":
			return CheckoutResult{}, ErrPaymentProvider
		}
		return CheckoutResult{}, err
	}

	// The handshake succeeded, so the order stands; clearing the mirror is
	// best effort and must never unwind it.
	if cerr := s.Carts.ClearUser(in.UserID); cerr != nil {
		logrus.WithError(cerr).WithField("order_id", orderID).Warn("checkout: clear cart")
	}

	return CheckoutResult{OrderID: orderID, HostedURL: hostedURL}, nil
}

// handshake creates the hosted invoice in the reference currency, pins the
// settlement currency, and persists the provider payment id on the order.
func (s *CheckoutService) handshake(ctx context.Context, orderID string, total decimal.Decimal) (string, error) {
	inv, err := s.Provider.CreateInvoice(ctx, payments.InvoiceRequest{
		PriceAmount:      total.StringFixed(2),
		PriceCurrency:    payments.PriceCurrency,
		OrderID:          orderID,
		OrderDescription: "Order #" + shortID(orderID) + " - Cryptobazaar",
		IPNCallbackURL:   s.BaseURL + "/api/v1/webhook",
		SuccessURL:       s.BaseURL + "/success?order_id=" + orderID,
		CancelURL:        s.BaseURL + "/cart",
	})
	if err != nil {
		return "", err
	}

	pay, err := s.Provider.PinPayment(ctx, inv.ID.String(), payments.PayCurrency)
	if err != nil {
		return "", err
	}

	if err := s.Orders.SetPaymentID(orderID, pay.PaymentID.String()); err != nil {
		return "", err
	}
	return inv.InvoiceURL, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
