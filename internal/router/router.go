package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/config"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/controller"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/db"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/middleware"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/storage"
	"gorm.io/gorm"
)

const (
	storageCheckTimeout = 5 * time.Second
	healthCheckTimeout  = 3 * time.Second
)

type Router struct {
	authController     *controller.AuthController
	propertyController *controller.PropertyController
	imageController    *controller.ImageController
	exportController   *controller.ExportController
	filterControllers  []*controller.FilterController
	authMiddleware     *middleware.AuthMiddleware
	storage            storage.ObjectStorage
	db                 *gorm.DB
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	propertyController *controller.PropertyController,
	imageController *controller.ImageController,
	exportController *controller.ExportController,
	filterControllers []*controller.FilterController,
	authMiddleware *middleware.AuthMiddleware,
	objectStorage storage.ObjectStorage,
	database *gorm.DB,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		propertyController: propertyController,
		imageController:    imageController,
		exportController:   exportController,
		filterControllers:  filterControllers,
		authMiddleware:     authMiddleware,
		storage:            objectStorage,
		db:                 database,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(apperrors.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.health)

	// Serve in-process uploads when no bucket is configured
	if mem, ok := r.storage.(*storage.MemoryStorage); ok {
		router.GET("/uploads/*key", serveMemoryObject(mem))
	}

	auth := r.authMiddleware.Authenticate()
	propertyBodyLimit := middleware.LimitBody(r.config.Upload.BodyLimit(r.config.Upload.MaxFiles))
	photoBodyLimit := middleware.LimitBody(r.config.Upload.BodyLimit(1))

	properties := router.Group("/properties")
	{
		admin := properties.Group("/admin")
		{
			admin.POST("/login", r.authController.Login)
			admin.GET("/me", auth, r.authController.Me)
		}

		properties.GET("", r.propertyController.ListProperties)
		properties.GET("/stats", auth, r.propertyController.GetStats)
		properties.GET("/export", auth, r.exportController.ExportProperties)
		properties.GET("/:id", r.propertyController.GetProperty)

		properties.POST("", auth, propertyBodyLimit, r.propertyController.CreateProperty)
		properties.PUT("/:id", auth, propertyBodyLimit, r.propertyController.UpdateProperty)
		properties.DELETE("/:id", auth, r.propertyController.DeleteProperty)

		properties.PUT("/:id/photo",
			auth,
			photoBodyLimit,
			middleware.VerifyStorage(r.storage, storageCheckTimeout),
			r.imageController.UploadImage,
		)
		properties.DELETE("/:id/images/:imageId", auth, r.imageController.DeleteImage)
		properties.PUT("/:id/images/:imageId/primary", auth, r.imageController.SetPrimary)
	}

	filters := router.Group("/filters")
	for _, ctrl := range r.filterControllers {
		kind := filters.Group("/" + string(ctrl.Kind()))
		{
			kind.GET("", ctrl.List)
			kind.GET("/:id", ctrl.Get)
			kind.POST("", auth, ctrl.Create)
			kind.PUT("/:id", auth, ctrl.Update)
			kind.DELETE("/:id", auth, ctrl.Delete)
		}
	}

	return router
}

// health reports 503 when the database or the bucket is unreachable.
func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := gin.H{"database": "ok", "storage": "ok"}
	healthy := true

	if err := db.Ping(ctx, r.db); err != nil {
		middleware.GetLoggerFromContext(c).Error("Database health check failed", err)
		checks["database"] = "unavailable"
		healthy = false
	}
	if err := r.storage.Ping(ctx); err != nil {
		middleware.GetLoggerFromContext(c).Error("Storage health check failed", err)
		checks["storage"] = "unavailable"
		healthy = false
	}

	status, state := http.StatusOK, "healthy"
	if !healthy {
		status, state = http.StatusServiceUnavailable, "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":  state,
		"message": "RentMyProperty API is running",
		"checks":  checks,
	})
}

func serveMemoryObject(mem *storage.MemoryStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, ok := mem.Object(strings.TrimPrefix(c.Param("key"), "/"))
		if !ok || !obj.Public {
			apperrors.Respond(c, apperrors.NotFound(apperrors.ResourceNotFound, "Resource not found"))
			return
		}
		c.Data(http.StatusOK, obj.ContentType, obj.Data)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}
