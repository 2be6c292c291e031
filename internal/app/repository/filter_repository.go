package repository

import (
	"strings"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"gorm.io/gorm"
)

// FilterRepository serves one taxonomy table. Use one instance per FilterKind.
type FilterRepository interface {
	Kind() model.FilterKind
	List() ([]model.FilterOption, error)
	FindByID(id uint) (*model.FilterOption, error)
	FindByName(name string) (*model.FilterOption, error)
	Create(option *model.FilterOption) error
	Update(option *model.FilterOption) error
	Delete(id uint) error
}

type filterRepository struct {
	db   *gorm.DB
	kind model.FilterKind
}

func NewFilterRepository(db *gorm.DB, kind model.FilterKind) FilterRepository {
	return &filterRepository{db: db, kind: kind}
}

func (r *filterRepository) table() *gorm.DB {
	return r.db.Table(r.kind.Table())
}

func (r *filterRepository) Kind() model.FilterKind {
	return r.kind
}

func (r *filterRepository) List() ([]model.FilterOption, error) {
	var options []model.FilterOption
	if err := r.table().Order("name ASC").Find(&options).Error; err != nil {
		logger.Error("Failed to list filter options", err, map[string]interface{}{
			"kind": r.kind,
		})
		return nil, err
	}
	return options, nil
}

func (r *filterRepository) FindByID(id uint) (*model.FilterOption, error) {
	var option model.FilterOption
	if err := r.table().Where("id = ?", id).First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

// FindByName matches case-insensitively.
func (r *filterRepository) FindByName(name string) (*model.FilterOption, error) {
	var option model.FilterOption
	if err := r.table().
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *filterRepository) Create(option *model.FilterOption) error {
	logger.Debug("Creating filter option in database", map[string]interface{}{
		"kind": r.kind,
		"name": option.Name,
	})

	if err := r.table().Create(option).Error; err != nil {
		logger.Error("Failed to create filter option in database", err, map[string]interface{}{
			"kind": r.kind,
			"name": option.Name,
		})
		return err
	}
	return nil
}

func (r *filterRepository) Update(option *model.FilterOption) error {
	logger.Debug("Updating filter option in database", map[string]interface{}{
		"kind":      r.kind,
		"option_id": option.ID,
		"name":      option.Name,
	})

	if err := r.table().Save(option).Error; err != nil {
		logger.Error("Failed to update filter option in database", err, map[string]interface{}{
			"kind":      r.kind,
			"option_id": option.ID,
		})
		return err
	}
	return nil
}

func (r *filterRepository) Delete(id uint) error {
	logger.Debug("Deleting filter option from database", map[string]interface{}{
		"kind":      r.kind,
		"option_id": id,
	})

	result := r.table().Where("id = ?", id).Delete(&model.FilterOption{})
	if result.Error != nil {
		logger.Error("Failed to delete filter option from database", result.Error, map[string]interface{}{
			"kind":      r.kind,
			"option_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
