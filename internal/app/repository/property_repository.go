package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PropertyFilter holds the listing criteria. Empty strings and nil bounds are ignored.
type PropertyFilter struct {
	Status       string
	Location     string
	Type         string
	PropertyType string
	Availability string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	Limit        int
}

type PropertyStats struct {
	Total    int64
	Active   int64
	Inactive int64
}

type PropertyRepository interface {
	Create(property *model.Property) error
	FindWithFilter(filter PropertyFilter) ([]model.Property, error)
	FindByID(id uint) (*model.Property, error)
	FindByPID(pid string) (*model.Property, error)
	Update(property *model.Property) error
	Delete(id uint) error
	Stats() (PropertyStats, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(property *model.Property) error {
	logger.Debug("Creating property in database", map[string]interface{}{
		"pid":      property.PID,
		"location": property.Location,
	})

	if err := r.db.Omit(clause.Associations).Create(property).Error; err != nil {
		logger.Error("Failed to create property in database", err, map[string]interface{}{
			"pid": property.PID,
		})
		return err
	}

	logger.Debug("Property created in database", map[string]interface{}{
		"property_id": property.ID,
		"pid":         property.PID,
	})
	return nil
}

func (r *propertyRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Property{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_images.sort_order ASC, property_images.id ASC")
		})
}

func (r *propertyRepository) FindWithFilter(filter PropertyFilter) ([]model.Property, error) {
	logger.Debug("Finding properties with filter", map[string]interface{}{
		"status":        filter.Status,
		"location":      filter.Location,
		"type":          filter.Type,
		"property_type": filter.PropertyType,
		"availability":  filter.Availability,
		"search":        filter.Search,
		"min_price":     filter.MinPrice,
		"max_price":     filter.MaxPrice,
	})

	query := r.baseQuery()

	if filter.Status != "" {
		query = query.Where("properties.status = ?", filter.Status)
	}
	if filter.Location != "" {
		query = query.Where("properties.location = ?", filter.Location)
	}
	if filter.Type != "" {
		query = query.Where("properties.type = ?", filter.Type)
	}
	if filter.PropertyType != "" {
		query = query.Where("properties.property_type = ?", filter.PropertyType)
	}
	if filter.Availability != "" {
		query = query.Where("properties.availability = ?", filter.Availability)
	}
	if filter.MinPrice != nil {
		query = query.Where("properties.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("properties.price <= ?", *filter.MaxPrice)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := fmt.Sprintf("%%%s%%", likeEscaper.Replace(strings.ToLower(search)))
		query = query.Where(
			`LOWER(properties.pid) LIKE ? ESCAPE '\' OR LOWER(properties.title) LIKE ? ESCAPE '\' OR LOWER(properties.location) LIKE ? ESCAPE '\'`,
			like, like, like,
		)
	}

	query = query.Order("properties.created_at DESC").Order("properties.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var properties []model.Property
	if err := query.Find(&properties).Error; err != nil {
		logger.Error("Failed to find properties with filter", err, map[string]interface{}{
			"location": filter.Location,
			"search":   filter.Search,
		})
		return nil, err
	}

	logger.Debug("Properties found with filter", map[string]interface{}{
		"count": len(properties),
	})
	return properties, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *propertyRepository) FindByID(id uint) (*model.Property, error) {
	logger.Debug("Finding property by ID in database", map[string]interface{}{
		"property_id": id,
	})

	var property model.Property
	if err := r.baseQuery().First(&property, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find property by ID in database", err, map[string]interface{}{
				"property_id": id,
			})
		}
		return nil, err
	}

	return &property, nil
}

func (r *propertyRepository) FindByPID(pid string) (*model.Property, error) {
	var property model.Property
	if err := r.baseQuery().Where("properties.pid = ?", pid).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// Update writes the scalar columns. Images are managed through PropertyImageRepository.
func (r *propertyRepository) Update(property *model.Property) error {
	logger.Debug("Updating property in database", map[string]interface{}{
		"property_id": property.ID,
		"pid":         property.PID,
	})

	if err := r.db.Omit(clause.Associations).Save(property).Error; err != nil {
		logger.Error("Failed to update property in database", err, map[string]interface{}{
			"property_id": property.ID,
			"pid":         property.PID,
		})
		return err
	}

	logger.Debug("Property updated in database", map[string]interface{}{
		"property_id": property.ID,
	})
	return nil
}

func (r *propertyRepository) Delete(id uint) error {
	logger.Debug("Deleting property from database", map[string]interface{}{
		"property_id": id,
	})

	result := r.db.Delete(&model.Property{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete property from database", result.Error, map[string]interface{}{
			"property_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Property deleted from database", map[string]interface{}{
		"property_id": id,
	})
	return nil
}

func (r *propertyRepository) Stats() (PropertyStats, error) {
	var stats PropertyStats

	if err := r.db.Model(&model.Property{}).Count(&stats.Total).Error; err != nil {
		logger.Error("Failed to count properties", err)
		return stats, err
	}
	if err := r.db.Model(&model.Property{}).
		Where("status = ?", model.PropertyStatusActive).
		Count(&stats.Active).Error; err != nil {
		logger.Error("Failed to count active properties", err)
		return stats, err
	}
	stats.Inactive = stats.Total - stats.Active

	return stats, nil
}
