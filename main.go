package main

import (
	"context"
	"log"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"adboard/config"
	"adboard/middleware"
	"adboard/routes"
	"adboard/utils"
)

func main() {
	logger := log.New(os.Stdout, "ADBOARD: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Sentry when a DSN is configured
	if dsn := config.AppConfig.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Printf("Sentry initialization failed: %v", err)
		}
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize object storage
	storage, err := utils.NewMinioStorage(config.AppConfig.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := storage.EnsureBucket(context.Background()); err != nil {
		logger.Fatalf("Failed to prepare storage bucket: %v", err)
	}

	// Initialize message generation for the notification sweeps
	messages, err := utils.NewMessageGenerator(config.AppConfig)
	if err != nil {
		logger.Fatalf("Failed to initialize message generator: %v", err)
	}
	sweeper := utils.NewExpirySweeper(messages, log.New(os.Stdout, "SWEEP: ", log.LstdFlags))

	// Mailer is nil when SMTP is not configured; dispatch endpoints report
	// that instead of failing at startup
	mailer := utils.NewNotificationMailer(config.AppConfig.SMTP)

	mediaLog := logrus.New()
	pipeline := utils.NewMediaPipeline(storage, mediaLog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 120 * 1024 * 1024,
	})

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(app, routes.Dependencies{
		DB:       config.DB,
		Sweeper:  sweeper,
		Mailer:   mailer,
		Pipeline: pipeline,
		Storage:  storage,
		MediaLog: mediaLog,
	})

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
