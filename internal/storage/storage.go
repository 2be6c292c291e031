// Package storage writes property photos to an object bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrObjectNotFound     = errors.New("object not found")
)

// ObjectStorage is the bucket the upload pipeline talks to.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	MakePublic(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	Ping(ctx context.Context) error
}

// PropertyImageKey builds properties/{propertyID}/{unixNano}{ext}.
func PropertyImageKey(propertyID uint, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("properties/%d/%d%s", propertyID, now.UnixNano(), ext)
}

// ValidateFileSize validates the file size
func ValidateFileSize(size, maxSize int64) error {
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d bytes", ErrFileTooLarge, size, maxSize)
	}
	return nil
}

// ValidateContentType accepts a content type that starts with one of the allowed prefixes.
func ValidateContentType(contentType string, allowedPrefixes []string) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(ct, strings.ToLower(prefix)) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
}

// DetectContentType returns the declared type unless it is missing or generic, in which case
// the first bytes of r are sniffed.
func DetectContentType(declared string, r io.Reader) (string, error) {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared, nil
	}

	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	return mtype.String(), nil
}
