// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kyc-verification-backend/internal/config"
	"kyc-verification-backend/internal/database"
	"kyc-verification-backend/internal/handlers"
	"kyc-verification-backend/internal/repository"
	"kyc-verification-backend/internal/routes"
	"kyc-verification-backend/internal/services"
)

func initLogger(env string) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Customize time format
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func main() {
	// Initialize logger first
	logger := initLogger(os.Getenv("ENV"))
	defer logger.Sync()

	// Replace global logger
	zap.ReplaceGlobals(logger)

	logger.Info("Starting kyc-verification-backend server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	// Initialize database
	db, err := database.NewMongoDB(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			logger.Error("Error closing database connection", zap.Error(err))
		}
	}()

	logger.Info("Successfully connected to MongoDB")

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.CreateIndexes(indexCtx); err != nil {
		indexCancel()
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}
	indexCancel()

	// Redis backs the capture-token store
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}()

	logger.Info("Successfully connected to Redis")

	// Initialize repositories
	logger.Debug("Initializing repositories")
	sessionRepo := repository.NewSessionRepository(db.GetCollection("sessions"))
	apiKeyRepo := repository.NewAPIKeyRepository(db.GetCollection("api_keys"))
	idTypeRepo := repository.NewIDTypeRepository(db.GetCollection("id_types"))
	usageRepo := repository.NewUsageRepository(db.GetCollection("usage"))

	logger.Info("All repositories initialized successfully")

	// Initialize services
	logger.Debug("Initializing services")
	apiKeyService := services.NewAPIKeyService(apiKeyRepo)
	idTypeService := services.NewIDTypeService(idTypeRepo)
	usageService := services.NewUsageService(usageRepo)
	tokenStore := services.NewRedisCaptureTokenStore(redisClient, "kyc")
	webhookService := services.NewWebhookService(cfg.Webhook.SigningSecret, cfg.Webhook.Timeout)

	// Clients for the verification engine
	ocrAPIService := services.NewOCRExtractionAPIService(cfg.Verification.OCRExtractionURL)
	faceDetectionAPIService := services.NewFaceDetectionAPIService(cfg.Verification.FaceDetectionURL)
	faceVerificationAPIService := services.NewFaceVerificationAPIService(cfg.Verification.FaceVerificationURL)
	livenessAPIService := services.NewLivenessAPIService(cfg.Verification.LivenessURL)

	sessionService := services.NewSessionService(
		sessionRepo,
		idTypeService,
		ocrAPIService,
		faceDetectionAPIService,
		faceVerificationAPIService,
		livenessAPIService,
		webhookService,
		tokenStore,
	)

	logger.Info("All services initialized successfully")

	// Initialize handlers
	logger.Debug("Initializing handlers")
	routeHandlers := &routes.Handlers{
		Health:  handlers.NewHealthHandler(db.Client, redisClient),
		Session: handlers.NewSessionHandler(sessionService),
		APIKey:  handlers.NewAPIKeyHandler(apiKeyService),
		IDType:  handlers.NewIDTypeHandler(idTypeService),
		Usage:   handlers.NewUsageHandler(usageService),
	}

	routeServices := &routes.Services{
		APIKey:       apiKeyService,
		Usage:        usageService,
		CaptureToken: tokenStore,
	}

	// Setup routes
	logger.Debug("Setting up routes")
	router := routes.SetupRoutes(routeHandlers, routeServices)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", serverAddr),
			zap.Duration("read_timeout", 30*time.Second),
			zap.Duration("write_timeout", 30*time.Second),
			zap.Duration("idle_timeout", 60*time.Second))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Received shutdown signal, shutting down server gracefully")

	// Gracefully shutdown the server with a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
