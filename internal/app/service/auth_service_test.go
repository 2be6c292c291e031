package service

import (
	"testing"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/config"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuthService_Login(t *testing.T) {
	hash, err := util.HashPassword("hashed-pass")
	require.NoError(t, err)

	plain := NewAuthService(config.AdminConfig{ID: "admin-1", Email: "owner@example.com", Password: "letmein"}, testSecret, time.Hour)
	hashed := NewAuthService(config.AdminConfig{ID: "admin-1", Email: "owner@example.com", Password: "ignored", PasswordHash: hash}, testSecret, time.Hour)

	tests := []struct {
		name     string
		svc      AuthService
		email    string
		password string
		wantErr  error
	}{
		{name: "Plain password", svc: plain, email: "owner@example.com", password: "letmein"},
		{name: "Email is case-insensitive", svc: plain, email: " Owner@Example.com ", password: "letmein"},
		{name: "Wrong password", svc: plain, email: "owner@example.com", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "Wrong email", svc: plain, email: "someone@example.com", password: "letmein", wantErr: ErrInvalidCredentials},
		{name: "Missing password", svc: plain, email: "owner@example.com", wantErr: ErrMissingCredentials},
		{name: "Missing email", svc: plain, password: "letmein", wantErr: ErrMissingCredentials},
		{name: "Hash wins over plain", svc: hashed, email: "owner@example.com", password: "hashed-pass"},
		{name: "Plain ignored when hash set", svc: hashed, email: "owner@example.com", password: "ignored", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiresAt, err := tt.svc.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

			claims, err := util.ValidateToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, "admin-1", claims.Subject)
			assert.Equal(t, RoleAdmin, claims.Role)
		})
	}
}

func TestAuthService_EmptyConfiguredPasswordNeverMatches(t *testing.T) {
	svc := NewAuthService(config.AdminConfig{ID: "admin", Email: "owner@example.com"}, testSecret, time.Hour)
	_, _, err := svc.Login("owner@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Me(t *testing.T) {
	svc := NewAuthService(config.AdminConfig{ID: "admin-1", Email: "owner@example.com", Password: "p"}, testSecret, time.Hour)
	token, _, err := svc.Login("owner@example.com", "p")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, Admin{ID: "admin-1", Email: "owner@example.com", Role: RoleAdmin}, svc.Me(claims))
}
