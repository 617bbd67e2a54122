package handlers

import (
	"encoding/json"
	"errors"

	applog "cryptobazaar/internal/log"
	"cryptobazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
}

// Page renders the checkout screen with the current cart.
func (h *CheckoutHandler) Page(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

// Create runs the checkout flow and returns the hosted payment URL.
func (h *CheckoutHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	var body struct {
		ShippingAddress json.RawMessage `json:"shipping_address"`
		Currency        string          `json:"currency"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	res, err := h.Checkout.Checkout(c.Context(), services.CheckoutInput{
		UserID:          u.ID,
		ShippingAddress: body.ShippingAddress,
		Currency:        body.Currency,
	})
	if err != nil {
		return h.checkoutError(c, err)
	}

	applog.Audit(c, "checkout.created", map[string]any{"order_id": res.OrderID})
	return c.JSON(fiber.Map{"hosted_url": res.HostedURL, "order_id": res.OrderID})
}

// checkoutError maps the error taxonomy to user-facing responses.
// Validation errors surface directly; infrastructure errors stay generic.
func (h *CheckoutHandler) checkoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "your cart is empty"})
	case errors.Is(err, services.ErrZeroTotal):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "order total is zero"})
	case errors.Is(err, services.ErrBelowMinimum):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "the minimum purchase is $2 USD; add more products to proceed"})
	case errors.Is(err, services.ErrMissingAddress):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "shipping address required"})
	case errors.Is(err, services.ErrPaymentProvider):
		applog.Error(c, "checkout.provider", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "payment setup failed, please try again"})
	default:
		applog.Error(c, "checkout.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not complete checkout"})
	}
}
