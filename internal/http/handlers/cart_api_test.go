package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"cryptobazaar/internal/config"
	"cryptobazaar/internal/http/handlers"
	"cryptobazaar/internal/repos"
	"cryptobazaar/internal/services"
)

func newCartAPIApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	app := fiber.New()
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
	api := app.Group("/api/v1")
	api.Get("/cart", deps.CartHandler.Get)
	api.Post("/cart/items", deps.CartHandler.AddItem)
	api.Put("/cart/items/:productId", deps.CartHandler.UpdateItem)
	api.Delete("/cart/items/:productId", deps.CartHandler.RemoveItem)

	_ = userRepo.BindSession("sid-alice", "u-alice")
	return app
}

func cartCall(t *testing.T, app *fiber.App, method, path, body, sid string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCartAPIRequiresLogin(t *testing.T) {
	app := newCartAPIApp(t)
	code, _ := cartCall(t, app, "GET", "/api/v1/cart", "", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	code, _ = cartCall(t, app, "POST", "/api/v1/cart/items", `{"product_id":"tee-classic"}`, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestCartAPIUnknownProduct(t *testing.T) {
	app := newCartAPIApp(t)
	code, out := cartCall(t, app, "POST", "/api/v1/cart/items", `{"product_id":"no-such-product"}`, "sid-alice")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%v)", code, out)
	}
}

func TestCartAPIFlow(t *testing.T) {
	app := newCartAPIApp(t)

	// add twice -> quantity 2
	code, out := cartCall(t, app, "POST", "/api/v1/cart/items", `{"product_id":"tee-classic"}`, "sid-alice")
	if code != http.StatusOK {
		t.Fatalf("add expected 200, got %d (%v)", code, out)
	}
	code, out = cartCall(t, app, "POST", "/api/v1/cart/items", `{"product_id":"tee-classic"}`, "sid-alice")
	if code != http.StatusOK {
		t.Fatalf("second add expected 200, got %d (%v)", code, out)
	}
	if out["total_items"].(float64) != 2 {
		t.Fatalf("expected 2 items after double add, got %v", out["total_items"])
	}
	if out["total"] != "49.98" {
		t.Fatalf("expected total 49.98, got %v", out["total"])
	}

	// set quantity to 5
	code, out = cartCall(t, app, "PUT", "/api/v1/cart/items/tee-classic", `{"quantity":5}`, "sid-alice")
	if code != http.StatusOK {
		t.Fatalf("update expected 200, got %d (%v)", code, out)
	}
	if out["total_items"].(float64) != 5 {
		t.Fatalf("expected 5 items after update, got %v", out["total_items"])
	}

	// zero quantity removes the line
	code, out = cartCall(t, app, "PUT", "/api/v1/cart/items/tee-classic", `{"quantity":0}`, "sid-alice")
	if code != http.StatusOK {
		t.Fatalf("zero update expected 200, got %d (%v)", code, out)
	}
	if out["total_items"].(float64) != 0 {
		t.Fatalf("expected empty cart after zero update, got %v", out["total_items"])
	}

	// removing an absent line is a no-op, cart stays consistent
	code, out = cartCall(t, app, "DELETE", "/api/v1/cart/items/tee-classic", "", "sid-alice")
	if code != http.StatusOK {
		t.Fatalf("delete expected 200, got %d (%v)", code, out)
	}
	items, _ := out["items"].([]any)
	if len(items) != 0 {
		t.Fatalf("expected no items, got %v", out["items"])
	}
}
