package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
)

// Pinger is satisfied by storage.ObjectStorage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// VerifyStorage rejects the request with 500 STORAGE_UNAVAILABLE when the bucket is unreachable.
func VerifyStorage(store Pinger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			GetLoggerFromContext(c).Error("Storage health check failed", err, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Respond(c, apperrors.StorageError(err))
			return
		}

		c.Next()
	}
}
