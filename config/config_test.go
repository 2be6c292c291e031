package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevelopmentDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("AWS_S3_BUCKET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.Equal(t, "admin@localhost", cfg.Admin.Email)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, 10, cfg.Upload.MaxFiles)
	assert.True(t, cfg.S3.PublicACL)
	assert.Empty(t, cfg.S3.Bucket)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("AWS_S3_BUCKET", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "ADMIN_EMAIL")
	assert.Contains(t, err.Error(), "AWS_S3_BUCKET")
}

func TestLoad_ProductionFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_EXPIRE", "1d")
	t.Setenv("ADMIN_EMAIL", "owner@example.com")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("AWS_S3_BUCKET", "listings")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"15m", 15 * time.Minute},
		{"7d", 7 * 24 * time.Hour},
		{"garbage", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDuration(tt.in, time.Hour))
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "app", DBName: "rent", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app dbname=rent sslmode=disable", cfg.DSN())

	cfg.Password = "pw"
	assert.Contains(t, cfg.DSN(), "password=pw")
}

func TestUploadConfig_BodyLimit(t *testing.T) {
	u := UploadConfig{MaxFileSize: 2 << 20, MaxFiles: 3}

	assert.Equal(t, int64(2<<20+formOverhead), u.BodyLimit(1))
	assert.Equal(t, int64(6<<20+formOverhead), u.BodyLimit(u.MaxFiles))
	assert.Equal(t, u.BodyLimit(1), u.BodyLimit(0))
}
