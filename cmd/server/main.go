package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/config"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/controller"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/repository"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/cache"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/db"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/middleware"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/router"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/storage"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel, logFormat := "info", "json"
	if cfg.IsDevelopment() {
		logLevel, logFormat = "debug", "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting RentMyProperty Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed default filter options (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize response cache
	var responseCache cache.Cache = cache.NewMemory()
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer client.Close()
		responseCache = cache.NewRedis(client, "")
	} else {
		logger.Warn("Redis disabled, using in-process response cache")
	}

	// Initialize object storage
	var objectStorage storage.ObjectStorage
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(context.Background(), &cfg.S3)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", err)
		}
		objectStorage = s3Storage
	} else {
		logger.Warn("AWS_S3_BUCKET not set, storing uploads in memory")
		objectStorage = storage.NewMemoryStorage(fmt.Sprintf("http://localhost:%s/uploads", cfg.Server.Port))
	}

	// Initialize repositories
	propertyRepo := repository.NewPropertyRepository(db.GetDB())
	imageRepo := repository.NewPropertyImageRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(cfg.Admin, cfg.JWT.Secret, cfg.JWT.Expiry)
	imageService := service.NewImageService(propertyRepo, imageRepo, objectStorage, responseCache, service.UploadLimits{
		MaxFileSize:     cfg.Upload.MaxFileSize,
		AllowedPrefixes: cfg.Upload.AllowedPrefixes,
	})
	propertyService := service.NewPropertyService(propertyRepo, imageRepo, imageService, responseCache, cfg.Cache.TTL)
	exportService := service.NewExportService(propertyRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	propertyController := controller.NewPropertyController(propertyService, cfg.Upload.MaxMemory)
	imageController := controller.NewImageController(imageService, cfg.Upload.MaxMemory)
	exportController := controller.NewExportController(exportService)

	filterControllers := make([]*controller.FilterController, 0, len(model.FilterKinds))
	for _, kind := range model.FilterKinds {
		filterService := service.NewFilterService(repository.NewFilterRepository(db.GetDB(), kind), responseCache, cfg.Cache.TTL)
		filterControllers = append(filterControllers, controller.NewFilterController(filterService))
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		propertyController,
		imageController,
		exportController,
		filterControllers,
		authMiddleware,
		objectStorage,
		db.GetDB(),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
