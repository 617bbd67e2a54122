package handlers

import (
	"strings"

	applog "cryptobazaar/internal/log"
	"cryptobazaar/internal/services"
	"cryptobazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	featured, err := h.Catalog.FeaturedProducts()
	if err != nil {
		applog.Error(c, "home.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load the shop"})
	}
	return render(c, "home", fiber.Map{"Featured": featured})
}

func (h *CatalogHandler) Shop(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.Category(category); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Unknown category"})
		}
	}
	products, err := h.Catalog.ListProducts(category, c.QueryInt("page", 1), 12)
	if err != nil {
		applog.Error(c, "shop.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "shop", fiber.Map{"Category": category, "Products": products})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || p.ID == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return render(c, "product", fiber.Map{"P": p, "Images": p.Images()})
}

// Availability is the JSON stock check used by product pages.
func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid productId"})
	}
	avail, err := h.Catalog.CheckAvailability(productID)
	if err != nil {
		applog.Error(c, "availability.check", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "availability unavailable"})
	}
	return c.JSON(avail)
}
