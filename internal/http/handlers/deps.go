package handlers

import (
	"okeanmarket/internal/feed"
	"okeanmarket/internal/notify"
	"okeanmarket/internal/repos"
	"okeanmarket/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	CourierHandler *CourierHandler
	AdminHandler   *AdminHandler
	ProfileHandler *ProfileHandler
}

func NewDeps(db *sqlx.DB, policy services.FeePolicy, notifier notify.Notifier, publisher feed.Publisher) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	profileRepo := repos.NewProfileRepo(db)
	addressRepo := repos.NewAddressRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, policy)
	orderSvc := services.NewOrderService(cartRepo, orderRepo, notifier, publisher)
	profileSvc := services.NewProfileService(profileRepo, addressRepo)

	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		CourierHandler: &CourierHandler{Orders: orderSvc},
		AdminHandler:   &AdminHandler{Orders: orderSvc},
		ProfileHandler: &ProfileHandler{Profiles: profileSvc},
	}
}
