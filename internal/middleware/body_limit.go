package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
)

// LimitBody rejects a declared Content-Length above limit and caps the body
// at limit bytes for chunked requests.
func LimitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			GetLoggerFromContext(c).Warn("Request body too large", map[string]interface{}{
				"path":           c.Request.URL.Path,
				"content_length": c.Request.ContentLength,
				"limit":          limit,
			})
			apperrors.Respond(c, apperrors.BadRequest(apperrors.UploadFileTooLarge, "File too large"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
