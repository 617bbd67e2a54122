package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"cryptobazaar/internal/config"
	"cryptobazaar/internal/domain"
	"cryptobazaar/internal/http/handlers"
	"cryptobazaar/internal/repos"
	"cryptobazaar/internal/services"
)

// Owners see their orders; other users get an indistinguishable 404.
func TestOrderViewOwnership(t *testing.T) {
	cfg := config.Config{DBDSN: ":memory:"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, cfg, authSvc, &stubProvider{})
	app.Get("/order/:id", deps.OrderHandler.View)

	orders := repos.NewOrderRepo(db)
	if err := orders.Create(domain.Order{
		ID: "ord-alice", UserID: "u-alice",
		Total:       decimal.RequireFromString("24.99"),
		ShippingRaw: `{"line1":"1 Main St"}`,
	}); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if err := orders.InsertItems([]domain.OrderItem{
		{OrderID: "ord-alice", ProductID: "tee-classic", Quantity: 1, Price: decimal.RequireFromString("24.99")},
	}); err != nil {
		t.Fatalf("seed items: %v", err)
	}

	_ = userRepo.BindSession("sid-alice", "u-alice")
	_ = userRepo.BindSession("sid-bob", "u-bob")
	_ = userRepo.BindSession("sid-admin", "u-admin")

	get := func(sid string) (int, string) {
		req := httptest.NewRequest("GET", "/order/ord-alice", nil)
		if sid != "" {
			req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	// Anonymous -> 404
	if code, _ := get(""); code != http.StatusNotFound {
		t.Fatalf("anonymous expected 404, got %d", code)
	}

	// Another user -> 404, identical to a missing order
	if code, _ := get("sid-bob"); code != http.StatusNotFound {
		t.Fatalf("other user expected 404, got %d", code)
	}

	// Owner -> 200 with the order content
	code, body := get("sid-alice")
	if code != http.StatusOK {
		t.Fatalf("owner expected 200, got %d", code)
	}
	if !strings.Contains(body, "ord-alice") {
		t.Fatalf("order id missing from page; body=%s", body)
	}

	// Admin -> 200
	if code, _ := get("sid-admin"); code != http.StatusOK {
		t.Fatalf("admin expected 200, got %d", code)
	}
}
