package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"okeanmarket/internal/config"
	"okeanmarket/internal/feed"
	"okeanmarket/internal/http/handlers"
	applog "okeanmarket/internal/log"
	"okeanmarket/internal/notify"
	"okeanmarket/internal/repos"
	"okeanmarket/internal/services"
)

func main() {
	cfg := config.Load()
	applog.Init(cfg.LogFile)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Delivery fee policy is configuration: the app has shipped with both.
	policy := services.PolicyByName(cfg.FeePolicy)
	log.Printf("[pricing] delivery fee policy: %s", policy.Name())

	var notifier notify.Notifier = notify.Nop{}
	if cfg.BotToken != "" && cfg.StaffChatID != "" {
		notifier = notify.NewTelegram(cfg.TelegramAPI, cfg.BotToken, cfg.StaffChatID)
	}

	var publisher feed.Publisher = feed.Nop{}
	if cfg.RedisAddr != "" {
		p, err := feed.NewRedisPublisher(cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			// The feed is a refresh optimization; polling stays authoritative.
			log.Printf("[feed] redis unavailable, running without change feed: %v", err)
		} else {
			publisher = p
			defer p.Close()
		}
	}

	// Auth wiring
	staffRepo := repos.NewStaffRepo(db)
	authSvc := &services.AuthService{Staff: staffRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"code": "internal", "error": "try again"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(handlers.AttachStaff(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, policy, notifier, publisher)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api/v1")

	// Catalog
	api.Get("/categories", deps.CatalogHandler.Categories)
	api.Get("/products", deps.CatalogHandler.Products)
	api.Get("/products/popular", deps.CatalogHandler.Popular)
	api.Get("/products/:id", deps.CatalogHandler.Product)
	api.Get("/products/:id/availability", deps.CatalogHandler.Availability)

	// Cart
	api.Get("/cart", deps.CartHandler.View)
	api.Get("/cart/totals", deps.CartHandler.Totals)
	api.Post("/cart", deps.CartHandler.Add)
	api.Post("/cart/increase", deps.CartHandler.Increase)
	api.Post("/cart/decrease", deps.CartHandler.Decrease)
	api.Post("/cart/qty", deps.CartHandler.SetQty)
	api.Post("/cart/remove", deps.CartHandler.Remove)

	// Orders (shopper)
	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders", deps.OrderHandler.History)
	api.Get("/orders/:id", deps.OrderHandler.View)

	// Profile & addresses
	api.Get("/profile", deps.ProfileHandler.Get)
	api.Put("/profile", deps.ProfileHandler.Update)
	api.Get("/addresses", deps.ProfileHandler.Addresses)
	api.Post("/addresses", deps.ProfileHandler.AddAddress)
	api.Post("/addresses/delete", deps.ProfileHandler.DeleteAddress)

	// Staff auth (login throttled)
	api.Post("/staff/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"code": "rate_limited", "error": "too many attempts"})
		},
	}), authH.Login)
	api.Post("/staff/logout", authH.Logout)

	// Courier board
	courier := api.Group("/courier", handlers.RequireCourier())
	courier.Get("/orders", deps.CourierHandler.Pool)
	courier.Get("/active", deps.CourierHandler.Active)
	courier.Get("/history", deps.CourierHandler.History)
	courier.Post("/orders/:id/accept", deps.CourierHandler.Accept)
	courier.Post("/orders/:id/complete", deps.CourierHandler.Complete)
	courier.Post("/orders/:id/cancel", deps.CourierHandler.Cancel)

	// Admin board
	admin := api.Group("/admin", handlers.RequireAdmin())
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/orders/:id/cancel", deps.AdminHandler.CancelOrder)
	admin.Get("/couriers", deps.AdminHandler.Couriers)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"code": "not_found", "error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
