package handlers

import (
	"cryptobazaar/internal/config"
	"cryptobazaar/internal/payments"
	"cryptobazaar/internal/repos"
	"cryptobazaar/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CatalogHandler  *CatalogHandler
	SearchHandler   *SearchHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	WebhookHandler  *WebhookHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, provider payments.Provider) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	checkoutSvc := services.NewCheckoutService(cartRepo, orderRepo, provider, cfg.BaseURL)

	return &Deps{
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		CheckoutHandler: &CheckoutHandler{Cart: cartSvc, Checkout: checkoutSvc},
		WebhookHandler:  &WebhookHandler{Orders: orderRepo, IPNSecret: cfg.PaymentsIPNSecret},
		OrderHandler:    &OrderHandler{Orders: orderRepo, Auth: auth},
		AdminHandler:    &AdminHandler{Orders: orderRepo, Users: userRepo},
	}
}
