package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/config"
)

func Setup(app *fiber.App, db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redisClient, cfg)
}

func setupWebRoutes(router fiber.Router) {
	router.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("auth/login", fiber.Map{
			"Title": "Iniciar sesión",
		})
	})

	router.Get("/", func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title": "Panel",
		})
	})

	// Import pages
	router.Get("/imports", func(c *fiber.Ctx) error {
		return c.Render("imports/index", fiber.Map{
			"Title": "Importaciones",
		})
	})

	router.Get("/imports/new", func(c *fiber.Ctx) error {
		return c.Render("imports/new", fiber.Map{
			"Title": "Nueva importación",
		})
	})

	router.Get("/imports/:code", func(c *fiber.Ctx) error {
		return c.Render("imports/detail", fiber.Map{
			"Title": "Revisión de importación",
		})
	})
}
