package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/util"
)

// Context keys for the authenticated admin
const (
	AdminIDKey     = "admin_id"
	AdminEmailKey  = "admin_email"
	AdminRoleKey   = "admin_role"
	AdminClaimsKey = "admin_claims"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate requires a valid "Authorization: Bearer <token>" header.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Respond(c, apperrors.Unauthorized(""))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Respond(c, apperrors.New(http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Not authorized to access this route", nil))
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.Respond(c, apperrors.New(http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired", err))
			} else {
				apperrors.Respond(c, apperrors.New(http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Not authorized to access this route", err))
			}
			return
		}

		c.Set(AdminIDKey, claims.Subject)
		c.Set(AdminEmailKey, claims.Email)
		c.Set(AdminRoleKey, claims.Role)
		c.Set(AdminClaimsKey, claims)

		log.Debug("Admin authenticated", map[string]interface{}{
			"admin_id": claims.Subject,
		})

		c.Next()
	}
}

// GetAdminClaims returns the token claims stored by Authenticate.
func GetAdminClaims(c *gin.Context) (*util.Claims, bool) {
	value, exists := c.Get(AdminClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*util.Claims)
	return claims, ok
}

// GetAdminID extracts the admin subject from context
func GetAdminID(c *gin.Context) (string, bool) {
	id, exists := c.Get(AdminIDKey)
	if !exists {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}
