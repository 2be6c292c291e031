package repository

import (
	"database/sql"
	"errors"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"gorm.io/gorm"
)

type PropertyImageRepository interface {
	Create(image *model.PropertyImage) error
	FindByIDAndProperty(id, propertyID uint) (*model.PropertyImage, error)
	ListByProperty(propertyID uint) ([]model.PropertyImage, error)
	FindPrimary(propertyID uint) (*model.PropertyImage, error)
	NextSortOrder(propertyID uint) (int, error)
	Delete(id uint) error
	SetPrimary(propertyID, imageID uint, replace bool) error
	PromoteFirst(propertyID uint) (*model.PropertyImage, error)
}

type propertyImageRepository struct {
	db *gorm.DB
}

func NewPropertyImageRepository(db *gorm.DB) PropertyImageRepository {
	return &propertyImageRepository{db: db}
}

func (r *propertyImageRepository) Create(image *model.PropertyImage) error {
	logger.Debug("Creating property image in database", map[string]interface{}{
		"property_id": image.PropertyID,
		"filename":    image.Filename,
		"is_primary":  image.IsPrimary,
	})

	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to create property image in database", err, map[string]interface{}{
			"property_id": image.PropertyID,
			"filename":    image.Filename,
		})
		return err
	}

	logger.Debug("Property image created in database", map[string]interface{}{
		"image_id":    image.ID,
		"property_id": image.PropertyID,
	})
	return nil
}

func (r *propertyImageRepository) FindByIDAndProperty(id, propertyID uint) (*model.PropertyImage, error) {
	var image model.PropertyImage
	if err := r.db.Where("id = ? AND property_id = ?", id, propertyID).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *propertyImageRepository) ListByProperty(propertyID uint) ([]model.PropertyImage, error) {
	var images []model.PropertyImage
	if err := r.db.Where("property_id = ?", propertyID).
		Order("sort_order ASC, id ASC").
		Find(&images).Error; err != nil {
		logger.Error("Failed to list property images", err, map[string]interface{}{
			"property_id": propertyID,
		})
		return nil, err
	}
	return images, nil
}

func (r *propertyImageRepository) FindPrimary(propertyID uint) (*model.PropertyImage, error) {
	var image model.PropertyImage
	if err := r.db.Where("property_id = ? AND is_primary = ?", propertyID, true).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *propertyImageRepository) NextSortOrder(propertyID uint) (int, error) {
	var maxOrder sql.NullInt64
	row := r.db.Model(&model.PropertyImage{}).
		Where("property_id = ?", propertyID).
		Select("MAX(sort_order)").
		Row()
	if err := row.Scan(&maxOrder); err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func (r *propertyImageRepository) Delete(id uint) error {
	logger.Debug("Deleting property image from database", map[string]interface{}{
		"image_id": id,
	})

	result := r.db.Delete(&model.PropertyImage{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete property image from database", result.Error, map[string]interface{}{
			"image_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPrimary marks imageID as the cover. With replace the current primary is cleared in the
// same transaction; without it the partial unique index rejects a second primary.
func (r *propertyImageRepository) SetPrimary(propertyID, imageID uint, replace bool) error {
	logger.Debug("Setting primary property image", map[string]interface{}{
		"property_id": propertyID,
		"image_id":    imageID,
		"replace":     replace,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := tx.Model(&model.PropertyImage{}).
				Where("property_id = ? AND is_primary = ? AND id <> ?", propertyID, true, imageID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&model.PropertyImage{}).
			Where("id = ? AND property_id = ?", imageID, propertyID).
			Update("is_primary", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// PromoteFirst makes the first image by sort order primary when the property has none.
// Returns the primary image, or nil when the property has no images.
func (r *propertyImageRepository) PromoteFirst(propertyID uint) (*model.PropertyImage, error) {
	if primary, err := r.FindPrimary(propertyID); err == nil {
		return primary, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var first model.PropertyImage
	err := r.db.Where("property_id = ?", propertyID).
		Order("sort_order ASC, id ASC").
		First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(&first).Update("is_primary", true).Error; err != nil {
		logger.Error("Failed to promote property image", err, map[string]interface{}{
			"property_id": propertyID,
			"image_id":    first.ID,
		})
		return nil, err
	}
	first.IsPrimary = true

	logger.Info("Property image promoted to primary", map[string]interface{}{
		"property_id": propertyID,
		"image_id":    first.ID,
	})
	return &first, nil
}
