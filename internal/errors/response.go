package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the failure half of the `{success, data?, error?}` envelope.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// AppError is an error that already knows its HTTP status and public message.
type AppError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError wrapping cause (which may be nil).
func New(status int, code, message string, cause error) *AppError {
	return &AppError{Status: status, Code: code, Message: message, Err: cause}
}

func BadRequest(code, message string) *AppError {
	return New(http.StatusBadRequest, code, message, nil)
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Not authorized to access this route"
	}
	return New(http.StatusUnauthorized, AuthUnauthorized, message, nil)
}

func NotFound(code, message string) *AppError {
	return New(http.StatusNotFound, code, message, nil)
}

func Conflict(code, message string) *AppError {
	return New(http.StatusConflict, code, message, nil)
}

func UploadError(cause error) *AppError {
	return New(http.StatusInternalServerError, UploadFailed, "Upload error", cause)
}

func StorageError(cause error) *AppError {
	return New(http.StatusInternalServerError, StorageUnavailable, "Storage service unavailable", cause)
}

func Internal(cause error) *AppError {
	return New(http.StatusInternalServerError, InternalServerError, "Server Error", cause)
}

// Validation builds a 400 carrying per-field messages.
func Validation(fields map[string]string) *AppError {
	e := New(http.StatusBadRequest, ValidationInvalidInput, "Invalid input", nil)
	e.Fields = fields
	return e
}

// Respond is the single place an error becomes an HTTP response.
// AppErrors keep their status; anything else goes through ParseError.
// Causes are never serialised.
func Respond(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = ParseError(err)
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
		Fields:  appErr.Fields,
	})
}

// Recovery turns a panic into the standard envelope instead of an empty 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		Respond(c, Internal(fmt.Errorf("panic: %v", recovered)))
	})
}
