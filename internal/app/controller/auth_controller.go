package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges the admin credentials for a bearer token
// POST /properties/admin/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(c, service.ErrMissingCredentials)
		return
	}

	token, expiresAt, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Info("Admin logged in", map[string]interface{}{
		"expires_at": expiresAt,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// Me returns the authenticated admin
// GET /properties/admin/me
func (ctrl *AuthController) Me(c *gin.Context) {
	claims, ok := middleware.GetAdminClaims(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Not authorized to access this route"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctrl.authService.Me(claims),
	})
}
