package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/repository"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/cache"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/storage"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"gorm.io/gorm"
)

// UploadState is a step of the image upload pipeline.
type UploadState string

const (
	UploadReceived  UploadState = "received"
	UploadValidated UploadState = "validated"
	UploadUploading UploadState = "uploading"
	UploadCommitted UploadState = "committed"
	UploadFailed    UploadState = "failed"
)

// UploadFile is one incoming file part. Open may be called more than once.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type UploadOptions struct {
	// IsPrimary requests the cover slot; it fails when another image already holds it.
	IsPrimary bool
}

type UploadLimits struct {
	MaxFileSize     int64
	AllowedPrefixes []string
}

type ImageService interface {
	ValidateFile(file *UploadFile) error
	Upload(ctx context.Context, propertyID uint, file UploadFile, opts UploadOptions) (*model.PropertyImage, error)
	UploadBatch(ctx context.Context, propertyID uint, files []UploadFile) ([]model.PropertyImage, error)
	DeleteImage(ctx context.Context, propertyID, imageID uint) error
	DeleteAllForProperty(ctx context.Context, propertyID uint) error
	SetPrimary(ctx context.Context, propertyID, imageID uint, replace bool) (*model.PropertyImage, error)
}

type imageService struct {
	propertyRepo repository.PropertyRepository
	imageRepo    repository.PropertyImageRepository
	storage      storage.ObjectStorage
	cache        cache.Cache
	limits       UploadLimits
	now          func() time.Time
}

func NewImageService(
	propertyRepo repository.PropertyRepository,
	imageRepo repository.PropertyImageRepository,
	objectStorage storage.ObjectStorage,
	responseCache cache.Cache,
	limits UploadLimits,
) ImageService {
	if responseCache == nil {
		responseCache = cache.Noop{}
	}
	if len(limits.AllowedPrefixes) == 0 {
		limits.AllowedPrefixes = []string{"image/"}
	}
	return &imageService{
		propertyRepo: propertyRepo,
		imageRepo:    imageRepo,
		storage:      objectStorage,
		cache:        responseCache,
		limits:       limits,
		now:          time.Now,
	}
}

// upload tracks one file through the pipeline.
type upload struct {
	state      UploadState
	propertyID uint
	file       UploadFile
	key        string
}

func (u *upload) transition(to UploadState) {
	logger.Debug("Upload state transition", map[string]interface{}{
		"property_id": u.propertyID,
		"filename":    u.file.Filename,
		"from":        u.state,
		"to":          to,
	})
	u.state = to
}

// fail moves the upload to failed and returns err unchanged.
func (u *upload) fail(err error) error {
	logger.Warn("Upload failed", map[string]interface{}{
		"property_id": u.propertyID,
		"filename":    u.file.Filename,
		"state":       u.state,
		"key":         u.key,
		"error":       err.Error(),
	})
	u.state = UploadFailed
	return err
}

// ValidateFile checks size and type, and resolves file.ContentType from the content when the
// client sent none or a generic one.
func (s *imageService) ValidateFile(file *UploadFile) error {
	if file == nil || file.Open == nil || (file.Filename == "" && file.Size == 0) {
		return ErrNoFile
	}

	if err := storage.ValidateFileSize(file.Size, s.limits.MaxFileSize); err != nil {
		return fmt.Errorf("%w: %v", ErrFileTooLarge, err)
	}

	contentType, err := s.detectContentType(file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFileType, err)
	}
	if err := storage.ValidateContentType(contentType, s.limits.AllowedPrefixes); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFileType, err)
	}

	file.ContentType = contentType
	return nil
}

func (s *imageService) detectContentType(file *UploadFile) (string, error) {
	declared := strings.TrimSpace(file.ContentType)
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared, nil
	}

	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return storage.DetectContentType(file.ContentType, rc)
}

func (s *imageService) Upload(ctx context.Context, propertyID uint, file UploadFile, opts UploadOptions) (*model.PropertyImage, error) {
	u := &upload{state: UploadReceived, propertyID: propertyID, file: file}

	if _, err := s.propertyRepo.FindByID(propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, u.fail(ErrPropertyNotFound)
		}
		return nil, u.fail(err)
	}

	image, err := s.runUpload(ctx, u, opts, -1)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return image, nil
}

// UploadBatch validates every file before uploading any of them, then uploads in order.
// When one upload fails the images already stored by this batch are removed again.
func (s *imageService) UploadBatch(ctx context.Context, propertyID uint, files []UploadFile) ([]model.PropertyImage, error) {
	if len(files) == 0 {
		return nil, nil
	}

	for i := range files {
		if err := s.ValidateFile(&files[i]); err != nil {
			return nil, err
		}
	}

	next, err := s.imageRepo.NextSortOrder(propertyID)
	if err != nil {
		return nil, err
	}

	images := make([]model.PropertyImage, 0, len(files))
	for i, file := range files {
		u := &upload{state: UploadReceived, propertyID: propertyID, file: file}
		image, err := s.runUpload(ctx, u, UploadOptions{}, next+i)
		if err != nil {
			s.rollbackBatch(ctx, images)
			return nil, err
		}
		images = append(images, *image)
	}

	s.invalidate(ctx)
	return images, nil
}

func (s *imageService) rollbackBatch(ctx context.Context, images []model.PropertyImage) {
	for i := range images {
		if err := s.removeImage(ctx, &images[i]); err != nil {
			logger.Error("Failed to roll back uploaded image", err, map[string]interface{}{
				"property_id": images[i].PropertyID,
				"image_id":    images[i].ID,
			})
		}
	}
}

// runUpload drives a received upload to committed or failed. sortOrder < 0 appends.
func (s *imageService) runUpload(ctx context.Context, u *upload, opts UploadOptions, sortOrder int) (*model.PropertyImage, error) {
	if err := s.ValidateFile(&u.file); err != nil {
		return nil, u.fail(err)
	}

	currentPrimary, err := s.imageRepo.FindPrimary(u.propertyID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, u.fail(err)
	}
	hasPrimary := err == nil && currentPrimary != nil
	if opts.IsPrimary && hasPrimary {
		return nil, u.fail(ErrPrimaryImageExists)
	}
	u.transition(UploadValidated)

	u.key = storage.PropertyImageKey(u.propertyID, u.file.Filename, s.now())
	u.transition(UploadUploading)

	if err := s.put(ctx, u); err != nil {
		return nil, u.fail(fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}

	if err := s.storage.MakePublic(ctx, u.key); err != nil {
		s.compensate(ctx, u)
		return nil, u.fail(fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}

	if sortOrder < 0 {
		if sortOrder, err = s.imageRepo.NextSortOrder(u.propertyID); err != nil {
			s.compensate(ctx, u)
			return nil, u.fail(err)
		}
	}

	image := &model.PropertyImage{
		PropertyID: u.propertyID,
		Filename:   u.key,
		URL:        s.storage.URL(u.key),
		IsPrimary:  opts.IsPrimary || !hasPrimary,
		Size:       u.file.Size,
		Mimetype:   u.file.ContentType,
		SortOrder:  sortOrder,
	}

	err = s.imageRepo.Create(image)
	if err != nil && apperrors.IsDuplicateKey(err) && !opts.IsPrimary {
		// Another request took the cover slot since FindPrimary.
		image.ID = 0
		image.IsPrimary = false
		err = s.imageRepo.Create(image)
	}
	if err != nil {
		s.compensate(ctx, u)
		if apperrors.IsDuplicateKey(err) {
			return nil, u.fail(ErrPrimaryImageExists)
		}
		return nil, u.fail(err)
	}

	u.transition(UploadCommitted)
	logger.Info("Property image uploaded", map[string]interface{}{
		"property_id": u.propertyID,
		"image_id":    image.ID,
		"key":         u.key,
		"size":        image.Size,
		"is_primary":  image.IsPrimary,
	})
	return image, nil
}

func (s *imageService) put(ctx context.Context, u *upload) error {
	rc, err := u.file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	return s.storage.Put(ctx, u.key, u.file.ContentType, rc, u.file.Size)
}

// compensate removes the bucket object of an upload that will not be committed.
// A failure here leaves an unreferenced object.
func (s *imageService) compensate(ctx context.Context, u *upload) {
	if u.key == "" {
		return
	}
	if err := s.storage.Delete(ctx, u.key); err != nil {
		logger.Error("Failed to remove orphaned object", err, map[string]interface{}{
			"property_id": u.propertyID,
			"key":         u.key,
		})
	}
}

func (s *imageService) DeleteImage(ctx context.Context, propertyID, imageID uint) error {
	image, err := s.imageRepo.FindByIDAndProperty(imageID, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.removeImage(ctx, image); err != nil {
		return err
	}

	if image.IsPrimary {
		if _, err := s.imageRepo.PromoteFirst(propertyID); err != nil {
			logger.Error("Failed to promote next image", err, map[string]interface{}{
				"property_id": propertyID,
			})
			return err
		}
	}

	s.invalidate(ctx)
	logger.Info("Property image deleted", map[string]interface{}{
		"property_id": propertyID,
		"image_id":    imageID,
	})
	return nil
}

// DeleteAllForProperty removes every image of a property, stopping at the first storage failure.
func (s *imageService) DeleteAllForProperty(ctx context.Context, propertyID uint) error {
	images, err := s.imageRepo.ListByProperty(propertyID)
	if err != nil {
		return err
	}

	for i := range images {
		if err := s.removeImage(ctx, &images[i]); err != nil {
			return err
		}
	}
	return nil
}

// removeImage deletes the bucket object, then the record. A missing object counts as deleted.
func (s *imageService) removeImage(ctx context.Context, image *model.PropertyImage) error {
	if err := s.storage.Delete(ctx, image.Filename); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		logger.Error("Failed to delete object from storage", err, map[string]interface{}{
			"image_id": image.ID,
			"key":      image.Filename,
		})
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := s.imageRepo.Delete(image.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *imageService) SetPrimary(ctx context.Context, propertyID, imageID uint, replace bool) (*model.PropertyImage, error) {
	image, err := s.imageRepo.FindByIDAndProperty(imageID, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	if image.IsPrimary {
		return image, nil
	}

	if err := s.imageRepo.SetPrimary(propertyID, imageID, replace); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrPrimaryImageExists
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	image.IsPrimary = true
	s.invalidate(ctx)
	return image, nil
}

func (s *imageService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Warn("Failed to invalidate response cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
