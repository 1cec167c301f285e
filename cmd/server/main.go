package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/rillyayidan/SmartHome-API/internal/bundle"
	"github.com/rillyayidan/SmartHome-API/internal/config"
	"github.com/rillyayidan/SmartHome-API/internal/handler"
	"github.com/rillyayidan/SmartHome-API/internal/repository"
	"github.com/rillyayidan/SmartHome-API/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("SmartHome Price Predictor API")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Load model bundle; the API still serves metadata when this fails
	b := loadBundle(cfg)

	// Prediction log
	var predictionLogger service.PredictionLogger
	var history handler.PredictionHistory
	if repo := openPredictionLog(cfg); repo != nil {
		defer repo.Close()
		predictionLogger = repo
		history = repo
	}

	// Prediction cache
	var predictionCache *cache.Cache
	if cfg.Prediction.CacheEnabled {
		predictionCache = cache.New(cfg.Prediction.CacheTTL, cfg.Prediction.CacheCleanup)
		log.Printf("✅ Prediction cache enabled (TTL %s)", cfg.Prediction.CacheTTL)
	}

	// Initialize AI client
	aiClient := service.NewAIClient(cfg)
	if aiClient.IsEnabled() {
		log.Printf("✅ Description extraction enabled")
		log.Printf("   - Provider: %s", aiClient.Name())
	} else {
		log.Println("⚠️  Description extraction is disabled - /api/v1/predict/describe will return 503")
		log.Println("   Set OPENAI_API_KEY or GEMINI_API_KEY environment variable to enable it")
	}

	// Initialize services
	predictionService := service.NewPredictionService(b, service.ServiceOptions{
		MaxBatch: cfg.Prediction.MaxBatchItems,
		Cache:    predictionCache,
		Logger:   predictionLogger,
		Debug:    cfg.Debug(),
	})
	descriptionParser := service.NewDescriptionParser(aiClient)

	log.Println("✅ Services initialized")

	// Initialize handlers
	predictHandler := handler.NewPredictHandler(predictionService, descriptionParser)
	metadataHandler := handler.NewMetadataHandler(predictionService, handler.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	})
	historyHandler := handler.NewHistoryHandler(history)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/", metadataHandler.Root)
	router.GET("/health", metadataHandler.Health)
	router.GET("/version", metadataHandler.Version)
	router.NoRoute(metadataHandler.NotFound)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Prediction endpoints
		apiV1.POST("/predict", predictHandler.Predict)
		apiV1.POST("/batch-predict", predictHandler.BatchPredict)
		apiV1.POST("/predict/describe", predictHandler.Describe)

		// Metadata endpoints
		apiV1.GET("/model-info", metadataHandler.ModelInfo)
		apiV1.GET("/zones", metadataHandler.Zones)

		// Prediction log
		apiV1.GET("/predictions/recent", historyHandler.Recent)
	}

	// Unversioned aliases
	router.POST("/predict", predictHandler.Predict)
	router.POST("/batch-predict", predictHandler.BatchPredict)
	router.GET("/model-info", metadataHandler.ModelInfo)
	router.GET("/zones", metadataHandler.Zones)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}

	log.Println("✅ Server stopped")
}

func loadBundle(cfg *config.Config) *bundle.Bundle {
	downloadClient := &http.Client{Timeout: cfg.Model.DownloadTimeout}
	if err := bundle.EnsureArtifact(cfg.Model.BundlePath, cfg.Model.DownloadURL, downloadClient); err != nil {
		log.Printf("❌ Failed to download model artifact: %v", err)
	}

	b, err := bundle.Load(cfg.Model.BundlePath, bundle.Options{RemoteTimeout: cfg.Model.RemoteTimeout})
	if err != nil {
		log.Printf("❌ Failed to load models from %s: %v", cfg.Model.BundlePath, err)
		log.Println("   API will not function properly until the artifact is fixed")
		return nil
	}

	log.Printf("✅ Models loaded from %s", cfg.Model.BundlePath)
	log.Printf("   - Models: %s", strings.Join(b.ModelNames(), ", "))
	log.Printf("   - Ensemble model: %t", b.Ensemble != nil)
	log.Printf("   - Selected features: %d", len(b.SelectedFeatures))

	return b
}

func openPredictionLog(cfg *config.Config) *repository.PredictionRepository {
	driver := cfg.PredictionLog.Driver
	if driver == "" {
		log.Println("⚠️  Prediction log is disabled")
		return nil
	}

	repo, err := repository.NewPredictionRepository(
		driver,
		cfg.PredictionLogDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Printf("❌ Failed to open prediction log (%s): %v", driver, err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("❌ Failed to prepare prediction log schema: %v", err)
		repo.Close()
		return nil
	}

	log.Printf("✅ Prediction log enabled (%s)", driver)
	return repo
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
