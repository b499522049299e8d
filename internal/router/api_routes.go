package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/config"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/handler"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/middleware"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/repository"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/service"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	// Repositories
	userRepo := repository.NewUserRepository(db)
	importRepo := repository.NewImportRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	excelService := service.NewExcelService()
	importService := service.NewImportService(excelService, importRepo, cfg)

	// Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	importHandler := handler.NewImportHandler(importRepo, excelService, importService, asynqClient, cfg)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/auth/me", authHandler.Me)

	imports := protected.Group("/imports")
	imports.Post("/", importHandler.Upload)
	imports.Post("/sheets", importHandler.Sheets)
	imports.Get("/", importHandler.GetSessions)
	imports.Get("/template/:ledger_type", importHandler.Template)
	imports.Get("/:code", importHandler.GetSession)
	imports.Delete("/:code", middleware.AdminOnly(), importHandler.Delete)
	imports.Post("/:code/confirm", importHandler.Confirm)
	imports.Get("/:code/errors", importHandler.ErrorReport)
}
