package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"cryptobazaar/internal/config"
	"cryptobazaar/internal/http/handlers"
	"cryptobazaar/internal/repos"
	"cryptobazaar/internal/services"
)

// Minimal app setup for validation tests
func newValidationApp(t *testing.T) (*fiber.App, *sqlx.DB, *repos.UserRepo) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", MediaDir: "../../../web/media"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(limiter.New(limiter.Config{Max: 100, Expiration: 0}))
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, cfg, authSvc, &stubProvider{})
	app.Get("/search", deps.SearchHandler.Search)
	app.Get("/shop", deps.CatalogHandler.Shop)
	app.Get("/product/:id", deps.CatalogHandler.Detail)
	api := app.Group("/api/v1")
	api.Get("/availability", deps.CatalogHandler.Availability)
	app.Post("/cart", deps.CartHandler.Add)
	app.Get("/login", authH.LoginForm)

	return app, db, userRepo
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// Reject malformed inputs early
func TestValidationBadInputs(t *testing.T) {
	app, _, userRepo := newValidationApp(t)

	// availability with malformed product id
	req := httptest.NewRequest("GET", "/api/v1/availability?productId=%3Cbad%3E", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad productId expected 400, got %d", resp.StatusCode)
	}

	// search with invalid chars
	req2 := httptest.NewRequest("GET", "/search?q=%3Cscript%3E", nil)
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatal(err)
	}
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad search expected 400, got %d", resp2.StatusCode)
	}

	// shop with unknown category
	req3 := httptest.NewRequest("GET", "/shop?category=weapons", nil)
	resp3, err := app.Test(req3)
	if err != nil {
		t.Fatal(err)
	}
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad category expected 400, got %d", resp3.StatusCode)
	}

	// anonymous cart add redirects to login
	loginResp, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(loginResp, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}
	formAnon := strings.NewReader("csrf=" + csrfTok + "&productId=tee-classic")
	reqAnon := httptest.NewRequest("POST", "/cart", formAnon)
	reqAnon.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqAnon.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	respAnon, err := app.Test(reqAnon)
	if err != nil {
		t.Fatal(err)
	}
	if respAnon.StatusCode != http.StatusFound {
		t.Fatalf("anonymous cart add expected redirect, got %d", respAnon.StatusCode)
	}

	// logged-in cart add without productId -> 400
	_ = userRepo.BindSession("sid-alice", "u-alice")
	formCart := strings.NewReader("csrf=" + csrfTok)
	reqCart := httptest.NewRequest("POST", "/cart", formCart)
	reqCart.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqCart.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	reqCart.AddCookie(&http.Cookie{Name: "sid", Value: "sid-alice"})
	respCart, err := app.Test(reqCart)
	if err != nil {
		t.Fatal(err)
	}
	if respCart.StatusCode != http.StatusBadRequest {
		body, _ := io.ReadAll(respCart.Body)
		t.Fatalf("missing productId expected 400, got %d body=%s", respCart.StatusCode, body)
	}
}

// Templates auto-escape untrusted text
func TestTemplateAutoEscape(t *testing.T) {
	app, db, _ := newValidationApp(t)
	// Insert a product with XSS-y fields
	_, _ = db.Exec(`
		INSERT INTO products(id,name,description,price,images_json,category,featured,stock)
		VALUES('xss-1','<script>alert(1)</script>','<b>desc</b>',9.99,'[]','tech',0,5)
	`)

	req := httptest.NewRequest("GET", "/product/xss-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if strings.Contains(s, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", s)
	}
}
