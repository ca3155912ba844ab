package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-web/internal/config"
	"catalog-web/internal/handler"
	"catalog-web/internal/importer"
	"catalog-web/internal/middleware"
	"catalog-web/internal/repository"
	"catalog-web/internal/service"
	"catalog-web/internal/storage"
	"catalog-web/internal/worker"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redisClient *redis.Client,
	store storage.ObjectStore,
	cfg *config.Config,
	log *logrus.Logger,
) {
	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	importRepo := repository.NewImportRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	workbookService := service.NewWorkbookService()
	locator := importer.NewImageLocator(store, log)
	importService := service.NewImportService(importRepo, productRepo, categoryRepo, workbookService, locator, cfg, log)

	// Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
		// Jobs whose drafts all validate are published without a second
		// request.
		importService.SetPublishEnqueuer(worker.NewAsynqEnqueuer(asynqClient))
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productRepo)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	importHandler := handler.NewImportHandler(importRepo, categoryRepo, importService, workbookService, asynqClient, redisClient, cfg)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	// Category routes
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.GetCategories)
	categories.Get("/:id", categoryHandler.GetCategory)
	categories.Post("/", middleware.AdminOnly(), categoryHandler.CreateCategory)
	categories.Put("/:id", middleware.AdminOnly(), categoryHandler.UpdateCategory)

	// Product routes
	products := protected.Group("/products")
	products.Get("/", productHandler.GetProducts)
	products.Post("/deactivate-test", middleware.AdminOnly(), productHandler.DeactivateTestProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", middleware.AdminOnly(), productHandler.DeleteProduct)

	// Import routes
	imports := protected.Group("/imports")
	imports.Post("/", importHandler.Upload)
	imports.Get("/", importHandler.GetJobs)
	imports.Get("/template", importHandler.DownloadTemplate)
	imports.Get("/:id", importHandler.GetJobDetail)
	imports.Get("/:id/items", importHandler.GetItems)
	imports.Post("/:id/assign-category", importHandler.AssignCategory)
	imports.Post("/:id/validate", importHandler.ValidateAll)
	imports.Post("/:id/check-duplicates", importHandler.CheckDuplicates)
	imports.Post("/:id/resolve-duplicate", importHandler.ResolveDuplicate)
	imports.Post("/:id/publish", importHandler.Publish)
	imports.Get("/:id/progress", importHandler.GetProgress)
	imports.Delete("/:id", importHandler.DeleteJob)
}
