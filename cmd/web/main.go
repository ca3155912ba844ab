package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"

	"catalog-web/internal/config"
	"catalog-web/internal/database"
	"catalog-web/internal/router"
	"catalog-web/internal/storage"
	"catalog-web/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := utils.GetLogger()

	db, err := database.NewMySQL(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to database: %v", err)
		log.Printf("Application will continue without database (read-only mode)")
		db = nil
	} else {
		defer db.Close()
	}

	// Redis is optional - without it, background publishing is disabled
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Printf("Application will continue without Redis (background jobs disabled)")
	} else {
		defer redisClient.Close()
	}

	store, err := storage.NewS3Store(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	sessionStore := session.New()

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

	router.Setup(app, db, redisClient, store, sessionStore, cfg, appLog)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\nGracefully shutting down...")
		_ = app.Shutdown()
	}()

	port := fmt.Sprintf(":%s", cfg.AppPort)
	log.Printf("Server starting on %s", port)
	if err := app.Listen(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	fmt.Println("Server exited")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if c.Accepts("application/json") != "" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	}

	return c.Status(code).Render("error", fiber.Map{
		"Code":    code,
		"Message": message,
	})
}
