package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ParseError maps an untyped error (usually from gorm) onto an AppError.
// Driver messages are inspected but never exposed.
func ParseError(err error) *AppError {
	if err == nil {
		return Internal(nil)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return New(http.StatusNotFound, ResourceNotFound, "Resource not found", err)
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(err)
	}

	errStrLower := strings.ToLower(err.Error())
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return New(http.StatusInternalServerError, InternalDatabaseError, "Server Error", err)
	}

	return Internal(err)
}

// IsDuplicateKey reports unique-constraint violations from postgres, sqlite, or gorm's translated error.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint")
}

func parseDuplicateKeyError(err error) *AppError {
	errLower := strings.ToLower(err.Error())

	if strings.Contains(errLower, "pid") {
		return New(http.StatusConflict, PropertyPIDExists, "A property with this PID already exists", err)
	}
	if strings.Contains(errLower, "is_primary") || strings.Contains(errLower, "primary_image") {
		return New(http.StatusConflict, ImagePrimaryConflict, "Property already has a primary image", err)
	}

	return New(http.StatusConflict, ResourceAlreadyExists, "Duplicate field value entered", err)
}
