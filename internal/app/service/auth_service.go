package service

import (
	"errors"
	"strings"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/config"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/util"
)

const RoleAdmin = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Admin is the single back-office principal.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthService interface {
	Login(email, password string) (string, time.Time, error)
	Me(claims *util.Claims) Admin
}

type authService struct {
	admin     config.AdminConfig
	jwtSecret string
	expiry    time.Duration
}

func NewAuthService(admin config.AdminConfig, jwtSecret string, expiry time.Duration) AuthService {
	return &authService{
		admin:     admin,
		jwtSecret: jwtSecret,
		expiry:    expiry,
	}
}

func (s *authService) Login(email, password string) (string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", time.Time{}, ErrMissingCredentials
	}

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	if !s.checkCredentials(email, password) {
		logger.Warn("Login failed: invalid credentials", map[string]interface{}{
			"email": email,
		})
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := util.GenerateToken(s.admin.ID, s.admin.Email, RoleAdmin, s.jwtSecret, s.expiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"email": email,
		})
		return "", time.Time{}, err
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"admin_id":   s.admin.ID,
		"expires_at": expiresAt,
	})
	return token, expiresAt, nil
}

// checkCredentials prefers the bcrypt hash; the plain password is compared in constant time.
func (s *authService) checkCredentials(email, password string) bool {
	emailOK := strings.EqualFold(email, s.admin.Email)

	var passwordOK bool
	if s.admin.PasswordHash != "" {
		passwordOK = util.VerifyPassword(s.admin.PasswordHash, password)
	} else {
		passwordOK = s.admin.Password != "" && util.ConstantTimeEqual(password, s.admin.Password)
	}

	return emailOK && passwordOK
}

func (s *authService) Me(claims *util.Claims) Admin {
	return Admin{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}
}
