package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/application/usecases"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/config"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/domain/repositories"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/infrastructure/cache"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/infrastructure/database"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/infrastructure/notifier"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/interfaces/http/middleware"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/interfaces/http/routes"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := logging.InitLogger(cfg.LogLevel, cfg.Environment); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger := logging.L()
	defer func() { _ = logger.Sync() }()

	db, err := database.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal("error setting up database", zap.Error(err))
	}

	// Dependências
	checkRepo := repositories.NewComplianceCheckRepository(db)
	insightsCache := cache.New[[]string](time.Minute)
	webhooks := notifier.NewWebhookNotifier(cfg.WebhookURLs, cfg.WebhookTimeout)

	complianceUseCase := usecases.NewComplianceUseCase(checkRepo, usecases.ComplianceOptions{
		Weights:     cfg.PenaltyWeights,
		Insights:    usecases.NewStatsInsights(checkRepo, insightsCache, cfg.InsightsCacheTTL),
		Notifier:    webhooks,
		PhoneRegion: cfg.PhoneDefaultRegion,
	})
	dashboardUseCase := usecases.NewDashboardUseCase(checkRepo)

	app := fiber.New(fiber.Config{
		AppName:      "compliance-intelligence-api",
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	middleware.SetupMiddlewares(app, cfg)
	routes.SetupRoutes(app, routes.Dependencies{
		Compliance: complianceUseCase,
		Dashboard:  dashboardUseCase,
		JWTSecret:  cfg.JWTSecret,
	})

	go func() {
		logger.Info("server is running",
			zap.String("port", cfg.Port),
			zap.Int("webhooks", len(cfg.WebhookURLs)))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("error shutting down server", zap.Error(err))
	}
	if err := webhooks.Close(ctx); err != nil {
		logger.Warn("pending webhooks dropped", zap.Error(err))
	}
	insightsCache.Close()
	if err := database.Close(db); err != nil {
		logger.Error("error closing database", zap.Error(err))
	}
}
