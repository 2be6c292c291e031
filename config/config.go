package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
	CORS     CORSConfig
	S3       S3Config
	Upload   UploadConfig
	Redis    RedisConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// AdminConfig is the single back-office principal. PasswordHash (bcrypt) wins over Password.
type AdminConfig struct {
	ID           string
	Email        string
	Password     string
	PasswordHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or custom domain
	Endpoint        string // S3-compatible endpoint (MinIO, GCS interoperability)
	UsePathStyle    bool
	PublicACL       bool
}

type UploadConfig struct {
	MaxFileSize     int64
	MaxFiles        int
	MaxMemory       int64
	AllowedPrefixes []string
}

// formOverhead covers multipart boundaries, part headers and text fields.
const formOverhead = 1 << 20

// BodyLimit caps a request carrying up to files images of MaxFileSize each.
func (u UploadConfig) BodyLimit(files int) int64 {
	if files < 1 {
		files = 1
	}
	return u.MaxFileSize*int64(files) + formOverhead
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type CacheConfig struct {
	TTL time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", getEnv("PORT", "8000")),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "rentmyproperty"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: parseDuration(getEnv("JWT_EXPIRE", "24h"), 24*time.Hour),
		},
		Admin: AdminConfig{
			ID:           getEnv("ADMIN_ID", "admin"),
			Email:        getEnv("ADMIN_EMAIL", ""),
			Password:     getEnv("ADMIN_PASSWORD", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         strings.TrimRight(getEnv("AWS_S3_BASE_URL", ""), "/"),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    parseBool(getEnv("AWS_S3_PATH_STYLE", "false")),
			PublicACL:       parseBool(getEnv("AWS_S3_PUBLIC_ACL", "true")),
		},
		Upload: UploadConfig{
			MaxFileSize:     parseInt64(getEnv("UPLOAD_MAX_FILE_SIZE", "10485760"), 10<<20),
			MaxFiles:        int(parseInt64(getEnv("UPLOAD_MAX_FILES", "10"), 10)),
			MaxMemory:       parseInt64(getEnv("UPLOAD_MAX_MEMORY", "8388608"), 8<<20),
			AllowedPrefixes: []string{"image/"},
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       int(parseInt64(getEnv("REDIS_DB", "0"), 0)),
		},
		Cache: CacheConfig{
			TTL: parseDuration(getEnv("CACHE_TTL", "5m"), 5*time.Minute),
		},
	}

	if config.IsDevelopment() {
		applyDevelopmentDefaults(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Validate rejects configurations that would run with missing secrets.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Admin.Email == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL is required"))
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"))
	}
	if c.S3.Bucket == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("AWS_S3_BUCKET is required"))
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be positive"))
	}
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_FILE_SIZE must be positive"))
	}
	if c.Upload.MaxFiles <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_FILES must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// applyDevelopmentDefaults fills local-only credentials so `go run` works without a .env file.
// Without AWS_S3_BUCKET the server falls back to in-process storage.
func applyDevelopmentDefaults(c *Config) {
	if c.JWT.Secret == "" {
		c.JWT.Secret = "development-only-secret"
	}
	if c.Admin.Email == "" {
		c.Admin.Email = "admin@localhost"
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		c.Admin.Password = "admin"
	}
}

func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.DBName, c.SSLMode,
	)
	if c.Password != "" {
		dsn += " password=" + c.Password
	}
	return dsn
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		// jsonwebtoken style "1d"
		if strings.HasSuffix(s, "d") {
			if days, convErr := strconv.Atoi(strings.TrimSuffix(s, "d")); convErr == nil {
				return time.Duration(days) * 24 * time.Hour
			}
		}
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt64(s string, fallback int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
