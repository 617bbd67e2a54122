package handlers

import (
	"cryptobazaar/internal/domain"
	applog "cryptobazaar/internal/log"
	"cryptobazaar/internal/repos"
	"cryptobazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Orders *repos.OrderRepo
	Users  *repos.UserRepo
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	orders, err := h.Orders.ListLatest(10)
	if err != nil {
		applog.Error(c, "admin.dashboard", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	return render(c, "admin_dashboard", fiber.Map{"Orders": orders})
}

func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	orders, err := h.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": orders})
}

// UpdateOrderStatus advances an order along the fulfilment path. Only
// forward transitions are accepted; regressions are rejected.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid order id")
	}
	next := c.FormValue("status")
	if !domain.ValidStatus(next) {
		applog.Security(c, "admin.status.invalid", map[string]any{"order_id": oid, "status": next})
		return c.Status(fiber.StatusBadRequest).SendString("unknown status")
	}

	o, _, err := h.Orders.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	if !domain.CanTransition(o.Status, next) {
		applog.Security(c, "admin.status.regression", map[string]any{"order_id": oid, "from": o.Status, "to": next})
		return c.Status(fiber.StatusBadRequest).SendString("status can only move forward")
	}

	if err := h.Orders.UpdateStatus(oid, next); err != nil {
		applog.Error(c, "admin.status.update", err, map[string]any{"order_id": oid})
		return c.Status(fiber.StatusInternalServerError).SendString("could not update status")
	}

	applog.Audit(c, "admin.status.updated", map[string]any{"order_id": oid, "from": o.Status, "to": next})
	return c.Redirect("/admin/orders")
}

func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	uid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid user id")
	}
	if err := h.Users.DeleteUserCascade(uid); err != nil {
		applog.Error(c, "admin.user.delete", err, map[string]any{"user_id": uid})
		return c.Status(fiber.StatusInternalServerError).SendString("could not delete user")
	}
	applog.Audit(c, "admin.user.deleted", map[string]any{"user_id": uid})
	return c.Redirect("/admin/users")
}
