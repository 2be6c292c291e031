package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	return router, NewAuthMiddleware(testJWTSecret)
}

func generateTestToken(t *testing.T, secret string, expiry time.Duration) string {
	token, _, err := util.GenerateToken("admin", "owner@example.com", "admin", secret, expiry)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()
	token := generateTestToken(t, testJWTSecret, time.Hour)

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		id, _ := GetAdminID(c)
		claims, ok := GetAdminClaims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "email": claims.Email})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"admin","email":"owner@example.com"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "Missing header", header: "", wantCode: "AUTH_UNAUTHORIZED"},
		{name: "Not bearer", header: "Basic abc", wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Malformed", header: "Bearer", wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Garbage token", header: "Bearer not.a.jwt", wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Wrong secret", header: "Bearer " + mustToken("other-secret", time.Hour), wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Expired", header: "Bearer " + mustToken(testJWTSecret, -time.Minute), wantCode: "AUTH_TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest()
			called := false
			router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
				called = true
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func mustToken(secret string, expiry time.Duration) string {
	token, _, err := util.GenerateToken("admin", "owner@example.com", "admin", secret, expiry)
	if err != nil {
		panic(err)
	}
	return token
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestVerifyStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
	}{
		{name: "Bucket reachable", wantStatus: http.StatusOK},
		{name: "Bucket unreachable", pingErr: errors.New("NotFound"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.PUT("/upload", VerifyStorage(stubPinger{err: tt.pingErr}, time.Second), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/upload", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.pingErr != nil {
				assert.JSONEq(t, `{"success":false,"error":"Storage service unavailable","code":"STORAGE_UNAVAILABLE"}`, w.Body.String())
			}
		})
	}
}

func TestLimitBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		size       int
		chunked    bool
		wantStatus int
	}{
		{name: "Within limit", size: 16, wantStatus: http.StatusOK},
		{name: "Declared length over limit", size: 64, wantStatus: http.StatusBadRequest},
		{name: "Chunked body over limit", size: 64, chunked: true, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/upload", LimitBody(32), func(c *gin.Context) {
				if _, err := io.ReadAll(c.Request.Body); err != nil {
					var maxErr *http.MaxBytesError
					require.ErrorAs(t, err, &maxErr)
					c.Status(http.StatusRequestEntityTooLarge)
					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", tt.size)))
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusBadRequest {
				assert.JSONEq(t, `{"success":false,"error":"File too large","code":"UPLOAD_FILE_TOO_LARGE"}`, w.Body.String())
			}
		})
	}
}

func TestLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.GET("/", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromContext(c))
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}
