package handlers

import (
	"database/sql"
	"errors"

	"cryptobazaar/internal/domain"
	applog "cryptobazaar/internal/log"
	"cryptobazaar/internal/services"
	"cryptobazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

type cartLineJSON struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

func cartJSON(cv services.CartView) fiber.Map {
	lines := make([]cartLineJSON, 0, len(cv.Items))
	for _, it := range cv.Items {
		lines = append(lines, cartLineJSON{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price.StringFixed(2),
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal().StringFixed(2),
		})
	}
	return fiber.Map{"items": lines, "total_items": cv.TotalItems, "total": cv.Total.StringFixed(2)}
}

// View renders the cart page.
func (h *CartHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// Get returns the hydrated cart as JSON.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	cv, err := h.Cart.View(u.ID)
	if err != nil {
		applog.Error(c, "cart.get", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	return c.JSON(cartJSON(cv))
}

// AddItem increments (or inserts) a line for the given product.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		body.ProductID = c.FormValue("productId")
	}
	productID, ok := validate.ID(body.ProductID)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product_id"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}

	if err := h.Cart.Add(u.ID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown product"})
		}
		// Mirror write failures are logged, not surfaced: the mutation is
		// still reflected on the next hydration attempt.
		applog.Error(c, "cart.sync", err, map[string]any{"product_id": productID})
	}
	return h.Get(c)
}

// UpdateItem sets a line's quantity; zero or negative removes the line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.Cart.SetQuantity(u.ID, productID, body.Quantity); err != nil {
		applog.Error(c, "cart.sync", err, map[string]any{"product_id": productID})
	}
	return h.Get(c)
}

// RemoveItem deletes a line; absent lines are a no-op.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}

	if err := h.Cart.Remove(u.ID, productID); err != nil {
		applog.Error(c, "cart.sync", err, map[string]any{"product_id": productID})
	}
	return h.Get(c)
}

// Add handles the form-posted add from product pages.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Cart.Add(u.ID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
		}
		applog.Error(c, "cart.sync", err, map[string]any{"product_id": productID})
	}
	return c.Redirect("/cart")
}
