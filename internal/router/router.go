package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-web/internal/config"
	"catalog-web/internal/middleware"
	"catalog-web/internal/storage"
)

func Setup(app *fiber.App, db *sqlx.DB, redisClient *redis.Client, store storage.ObjectStore, sessionStore *session.Store, cfg *config.Config, log *logrus.Logger) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web, sessionStore)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redisClient, store, cfg, log)
}

func setupWebRoutes(router fiber.Router, sessionStore *session.Store) {
	router.Get("/login", middleware.GuestMiddleware(sessionStore), func(c *fiber.Ctx) error {
		return c.Render("auth/login", fiber.Map{
			"Title": "Login",
		})
	})

	// Dashboard (protected)
	protected := router.Group("", middleware.WebAuthMiddleware(sessionStore))

	protected.Get("/", func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title": "Dashboard",
		})
	})

	protected.Get("/imports", func(c *fiber.Ctx) error {
		return c.Render("imports/index", fiber.Map{
			"Title": "Import Jobs",
		})
	})

	protected.Get("/imports/new", func(c *fiber.Ctx) error {
		return c.Render("imports/new", fiber.Map{
			"Title": "New Import",
		})
	})

	protected.Get("/imports/:id", func(c *fiber.Ctx) error {
		return c.Render("imports/detail", fiber.Map{
			"Title": "Import Detail",
		})
	})

	protected.Get("/products", func(c *fiber.Ctx) error {
		return c.Render("products/index", fiber.Map{
			"Title": "Products",
		})
	})

	protected.Get("/categories", func(c *fiber.Ctx) error {
		return c.Render("categories/index", fiber.Map{
			"Title": "Categories",
		})
	})
}
