package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken("admin", "admin@example.com", "admin", testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

func TestValidateToken(t *testing.T) {
	token, _, err := GenerateToken("admin", "admin@example.com", "admin", testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Invalid secret",
			token:   token,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, "admin", claims.Subject)
				assert.Equal(t, "admin@example.com", claims.Email)
				assert.Equal(t, "admin", claims.Role)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	token, _, err := GenerateToken("admin", "admin@example.com", "admin", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
