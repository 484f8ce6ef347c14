package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/reviewpulse/reviewpulse-backend/internal/config"
	"github.com/reviewpulse/reviewpulse-backend/internal/database"
	"github.com/reviewpulse/reviewpulse-backend/internal/handlers"
	"github.com/reviewpulse/reviewpulse-backend/internal/services"
	"github.com/reviewpulse/reviewpulse-backend/internal/store"
	"github.com/reviewpulse/reviewpulse-backend/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	if err := database.Connect(cfg.MongoURI, cfg.DBName); err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := handlers.EnsureAdminUser(ctx, cfg, zlog); err != nil {
		cancel()
		zlog.Fatal("failed to seed admin user", zap.Error(err))
	}
	cancel()

	reviews := store.NewMongoReviewStore(database.GetCollection("reviews"))
	engine := services.NewEngine(cfg.GroqAPIKey, cfg.GroqModel, zlog)
	h := handlers.New(reviews, engine, cfg, zlog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST",
	}))

	// Routes
	app.Get("/", h.Root)
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/reviews", h.CreateReview)
	api.Post("/auth/login", h.Login)

	// Admin routes (protected)
	admin := api.Group("/admin", h.AuthMiddleware, h.AdminMiddleware)
	admin.Get("/reviews", h.GetReviews)
	admin.Get("/analytics", h.GetAnalytics)
	admin.Get("/ai-insights", h.GetAIInsights)

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
