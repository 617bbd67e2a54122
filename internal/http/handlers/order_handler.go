package handlers

import (
	applog "cryptobazaar/internal/log"
	"cryptobazaar/internal/repos"
	"cryptobazaar/internal/services"
	"cryptobazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *repos.OrderRepo
	Auth   *services.AuthService
}

// View shows one order. Owners see their own orders; admins see all.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	o, items, err := h.Orders.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	u := currentUser(c)
	if u == nil || (u.ID != o.UserID && u.Role != "ADMIN") {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the current logged-in user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	orders, err := h.Orders.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

// Success is the landing page the hosted payment page redirects back to.
// Payment confirmation itself arrives via the webhook, so the page only
// shows the order in whatever state it currently is.
func (h *OrderHandler) Success(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}
	oid, ok := validate.ID(c.Query("order_id"))
	if !ok {
		return c.Redirect("/orders")
	}
	o, _, err := h.Orders.Get(oid)
	if err != nil || o.UserID != u.ID {
		return c.Redirect("/orders")
	}
	return render(c, "success", fiber.Map{"Order": o})
}
