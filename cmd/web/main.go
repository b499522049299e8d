package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/config"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/database"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/router"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	applog := utils.GetLogger()

	db, err := database.NewMySQL(cfg)
	if err != nil {
		applog.WithError(err).Warn("failed to connect to database, continuing in read-only mode")
		db = nil
	} else {
		defer db.Close()
	}

	// Redis is optional: without it only background persistence is disabled.
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		applog.WithError(err).Warn("failed to connect to Redis, background jobs disabled")
	} else {
		defer redisClient.Close()
	}

	engine := html.New("./views", ".html")
	engine.Reload(cfg.AppEnv == "development")

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        engine,
		BodyLimit:    cfg.UploadMaxSize,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Static("/static", "./public")

	router.Setup(app, db, redisClient, cfg)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nGracefully shutting down...")
		app.Shutdown()
	}()

	applog.WithField("port", cfg.AppPort).Info("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
