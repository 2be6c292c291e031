package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/service"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
)

// respondError maps service sentinels onto the error envelope.
func respondError(c *gin.Context, err error) {
	apperrors.Respond(c, toAppError(err))
}

func toAppError(err error) error {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.Validation(vErr.Fields)
	}

	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		return apperrors.BadRequest(apperrors.ValidationRequired, "Please provide an email and password")
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.New(http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid credentials", err)
	case errors.Is(err, service.ErrPropertyNotFound):
		return apperrors.NotFound(apperrors.PropertyNotFound, "Property not found")
	case errors.Is(err, service.ErrPropertyPIDExists):
		return apperrors.Conflict(apperrors.PropertyPIDExists, "A property with this PID already exists")
	case errors.Is(err, service.ErrImageNotFound):
		return apperrors.NotFound(apperrors.ImageNotFound, "Image not found")
	case errors.Is(err, service.ErrPrimaryImageExists):
		return apperrors.Conflict(apperrors.ImagePrimaryConflict, "Property already has a primary image")
	case errors.Is(err, service.ErrNoFile):
		return apperrors.BadRequest(apperrors.UploadNoFile, "No file uploaded")
	case errors.Is(err, service.ErrInvalidFileType):
		return apperrors.BadRequest(apperrors.UploadInvalidFileType, "Only image files are allowed")
	case errors.Is(err, service.ErrFileTooLarge):
		return apperrors.BadRequest(apperrors.UploadFileTooLarge, "File too large")
	case errors.Is(err, service.ErrUploadFailed):
		return apperrors.UploadError(err)
	case errors.Is(err, service.ErrStorageUnavailable):
		return apperrors.StorageError(err)
	case errors.Is(err, service.ErrFilterNameExists):
		return apperrors.Conflict(apperrors.FilterNameExists, "An entry with this name already exists")
	case errors.Is(err, service.ErrFilterNotFound):
		return apperrors.NotFound(apperrors.FilterNotFound, "Entry not found")
	}
	return err
}
