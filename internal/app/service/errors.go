package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrPropertyNotFound   = errors.New("property not found")
	ErrPropertyPIDExists  = errors.New("a property with this pid already exists")
	ErrImageNotFound      = errors.New("image not found")
	ErrPrimaryImageExists = errors.New("property already has a primary image")
	ErrNoFile             = errors.New("no file uploaded")
	ErrInvalidFileType    = errors.New("only image files are allowed")
	ErrFileTooLarge       = errors.New("file too large")
	ErrUploadFailed       = errors.New("upload failed")
	ErrStorageUnavailable = errors.New("storage service unavailable")
	ErrFilterNotFound     = errors.New("filter option not found")
	ErrFilterNameExists   = errors.New("filter option already exists")
)

// ValidationError lists per-field problems with an input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
