package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/repository"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/cache"
	apperrors "github.com/rentmyproperty/rentmyproperty-backend/internal/errors"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"gorm.io/gorm"
)

const recentPropertiesLimit = 5

// PropertyInput carries the writable fields. Nil fields are left untouched on update
// and count as missing on create.
type PropertyInput struct {
	PID          *string
	Title        *string
	Location     *string
	Type         *string
	Availability *string
	Furnishing   []string
	PropertyType *string
	Amenities    []string
	Price        *float64
	RentPeriod   *string
	Status       *string
}

type PropertyListOptions struct {
	Status       string
	Location     string
	Type         string
	PropertyType string
	Availability string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
}

type PropertyStats struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	Recent   []model.Property `json:"recent"`
}

type PropertyService interface {
	ListProperties(ctx context.Context, opts PropertyListOptions) ([]model.Property, error)
	GetProperty(id uint) (*model.Property, error)
	CreateProperty(ctx context.Context, input PropertyInput, files []UploadFile) (*model.Property, error)
	UpdateProperty(ctx context.Context, id uint, input PropertyInput, files []UploadFile) (*model.Property, error)
	DeleteProperty(ctx context.Context, id uint) error
	GetStats() (*PropertyStats, error)
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	imageRepo    repository.PropertyImageRepository
	images       ImageService
	cache        cache.Cache
	cacheTTL     time.Duration
}

func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	imageRepo repository.PropertyImageRepository,
	images ImageService,
	responseCache cache.Cache,
	ttl time.Duration,
) PropertyService {
	if responseCache == nil {
		responseCache = cache.Noop{}
	}
	return &propertyService{
		propertyRepo: propertyRepo,
		imageRepo:    imageRepo,
		images:       images,
		cache:        responseCache,
		cacheTTL:     ttl,
	}
}

func (o PropertyListOptions) cacheKey() string {
	key, _ := json.Marshal(o)
	return "properties:" + string(key)
}

func (s *propertyService) ListProperties(ctx context.Context, opts PropertyListOptions) ([]model.Property, error) {
	key := opts.cacheKey()

	var properties []model.Property
	gen, hit := readCache(ctx, s.cache, key, &properties)
	if hit {
		logger.Debug("Property list served from cache", map[string]interface{}{
			"count": len(properties),
		})
		return properties, nil
	}

	properties, err := s.propertyRepo.FindWithFilter(repository.PropertyFilter{
		Status:       opts.Status,
		Location:     opts.Location,
		Type:         opts.Type,
		PropertyType: opts.PropertyType,
		Availability: opts.Availability,
		Search:       opts.Search,
		MinPrice:     opts.MinPrice,
		MaxPrice:     opts.MaxPrice,
	})
	if err != nil {
		logger.Error("Failed to list properties", err)
		return nil, err
	}
	if properties == nil {
		properties = []model.Property{}
	}

	writeCache(ctx, s.cache, gen, key, properties, s.cacheTTL)

	logger.Info("Properties listed", map[string]interface{}{
		"count": len(properties),
	})
	return properties, nil
}

func (s *propertyService) GetProperty(id uint) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Property not found", map[string]interface{}{
				"property_id": id,
			})
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return property, nil
}

func (s *propertyService) CreateProperty(ctx context.Context, input PropertyInput, files []UploadFile) (*model.Property, error) {
	property := &model.Property{
		RentPeriod: model.RentPerMonth,
		Status:     model.PropertyStatusActive,
	}

	fields := requireCreateFields(input)
	applyInput(property, input)
	for k, v := range validateProperty(property) {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}
	if err := newValidationError(fields); err != nil {
		return nil, err
	}

	for i := range files {
		if err := s.images.ValidateFile(&files[i]); err != nil {
			return nil, err
		}
	}

	logger.Info("Creating property", map[string]interface{}{
		"pid":    property.PID,
		"images": len(files),
	})

	if err := s.propertyRepo.Create(property); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrPropertyPIDExists
		}
		return nil, err
	}

	if _, err := s.images.UploadBatch(ctx, property.ID, files); err != nil {
		if delErr := s.propertyRepo.Delete(property.ID); delErr != nil {
			logger.Error("Failed to roll back property after upload failure", delErr, map[string]interface{}{
				"property_id": property.ID,
			})
		}
		return nil, err
	}

	s.invalidate(ctx)

	created, err := s.propertyRepo.FindByID(property.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Property created", map[string]interface{}{
		"property_id": created.ID,
		"pid":         created.PID,
		"images":      len(created.Images),
	})
	return created, nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, id uint, input PropertyInput, files []UploadFile) (*model.Property, error) {
	property, err := s.GetProperty(id)
	if err != nil {
		return nil, err
	}

	applyInput(property, input)
	if err := newValidationError(validateProperty(property)); err != nil {
		return nil, err
	}

	for i := range files {
		if err := s.images.ValidateFile(&files[i]); err != nil {
			return nil, err
		}
	}

	if existing, err := s.propertyRepo.FindByPID(property.PID); err == nil && existing.ID != property.ID {
		return nil, ErrPropertyPIDExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	uploaded, err := s.images.UploadBatch(ctx, property.ID, files)
	if err != nil {
		return nil, err
	}

	property.Images = nil
	if err := s.propertyRepo.Update(property); err != nil {
		for i := range uploaded {
			if delErr := s.images.DeleteImage(ctx, property.ID, uploaded[i].ID); delErr != nil {
				logger.Error("Failed to roll back uploaded image", delErr, map[string]interface{}{
					"property_id": property.ID,
					"image_id":    uploaded[i].ID,
				})
			}
		}
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrPropertyPIDExists
		}
		return nil, err
	}

	if _, err := s.imageRepo.PromoteFirst(property.ID); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	logger.Info("Property updated", map[string]interface{}{
		"property_id": property.ID,
		"new_images":  len(uploaded),
	})
	return s.GetProperty(property.ID)
}

// DeleteProperty removes every image (object then record) before the property row.
func (s *propertyService) DeleteProperty(ctx context.Context, id uint) error {
	if _, err := s.GetProperty(id); err != nil {
		return err
	}

	if err := s.images.DeleteAllForProperty(ctx, id); err != nil {
		logger.Error("Failed to delete property images", err, map[string]interface{}{
			"property_id": id,
		})
		s.invalidate(ctx)
		return err
	}

	if err := s.propertyRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}

	s.invalidate(ctx)

	logger.Info("Property deleted", map[string]interface{}{
		"property_id": id,
	})
	return nil
}

func (s *propertyService) GetStats() (*PropertyStats, error) {
	counts, err := s.propertyRepo.Stats()
	if err != nil {
		return nil, err
	}

	recent, err := s.propertyRepo.FindWithFilter(repository.PropertyFilter{Limit: recentPropertiesLimit})
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []model.Property{}
	}

	return &PropertyStats{
		Total:    counts.Total,
		Active:   counts.Active,
		Inactive: counts.Inactive,
		Recent:   recent,
	}, nil
}

func (s *propertyService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Warn("Failed to invalidate response cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func requireCreateFields(input PropertyInput) map[string]string {
	fields := map[string]string{}
	required := map[string]*string{
		"pid":          input.PID,
		"title":        input.Title,
		"location":     input.Location,
		"availability": input.Availability,
		"propertyType": input.PropertyType,
	}
	for name, value := range required {
		if value == nil || strings.TrimSpace(*value) == "" {
			fields[name] = "is required"
		}
	}
	if input.Price == nil {
		fields["price"] = "is required"
	}
	if len(cleanList(input.Furnishing)) == 0 {
		fields["furnishing"] = "is required"
	}
	return fields
}

func applyInput(p *model.Property, in PropertyInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.PID, in.PID)
	set(&p.Title, in.Title)
	set(&p.Location, in.Location)
	set(&p.Availability, in.Availability)
	set(&p.PropertyType, in.PropertyType)

	if in.Type != nil {
		p.Type = model.UnitType(strings.TrimSpace(*in.Type))
	}
	if in.RentPeriod != nil && strings.TrimSpace(*in.RentPeriod) != "" {
		p.RentPeriod = model.RentPeriod(strings.TrimSpace(*in.RentPeriod))
	}
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		p.Status = model.PropertyStatus(strings.TrimSpace(*in.Status))
	}
	if in.Furnishing != nil {
		p.Furnishing = cleanList(in.Furnishing)
	}
	if in.Amenities != nil {
		p.Amenities = cleanList(in.Amenities)
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
}

func validateProperty(p *model.Property) map[string]string {
	fields := map[string]string{}

	if p.PID == "" {
		fields["pid"] = "is required"
	} else if len(p.PID) > 64 {
		fields["pid"] = "must be at most 64 characters"
	}
	if p.Title == "" {
		fields["title"] = "is required"
	}
	if p.Location == "" {
		fields["location"] = "is required"
	}
	if p.Availability == "" {
		fields["availability"] = "is required"
	}
	if p.PropertyType == "" {
		fields["propertyType"] = "is required"
	}
	if len(p.Furnishing) == 0 {
		fields["furnishing"] = "is required"
	}
	if p.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if p.Type != "" && !p.Type.Valid() {
		fields["type"] = fmt.Sprintf("must be one of %s", joinValues(model.UnitTypes))
	}
	if !p.RentPeriod.Valid() {
		fields["rentPeriod"] = "must be one of per month, per week, per day"
	}
	if !p.Status.Valid() {
		fields["status"] = "must be active or inactive"
	}
	return fields
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
