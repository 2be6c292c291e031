package db

import (
	"strings"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"gorm.io/gorm"
)

// DefaultFilters is the reference data inserted into empty filter tables.
// Locations are left to the admin.
var DefaultFilters = map[model.FilterKind][]string{
	model.FilterPropertyTypes:  {"Apartment", "Villa", "Independent", "PG"},
	model.FilterOccupancyTypes: {"FOR ALL", "FAMILY ONLY", "BACHELOR ONLY"},
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB migrates the given connection. The three filter kinds share one row shape
// and each gets its own table.
func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Property{},
		&model.PropertyImage{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	for _, kind := range model.FilterKinds {
		if err := db.Table(kind.Table()).AutoMigrate(&model.FilterOption{}); err != nil {
			logger.Error("Failed to migrate filter table", err, map[string]interface{}{
				"table": kind.Table(),
			})
			return err
		}
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models) + len(model.FilterKinds),
	})
	return nil
}

// Seed adds the default filter options to the database
func Seed() error {
	return SeedDB(DB)
}

func SeedDB(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	for _, kind := range model.FilterKinds {
		if err := seedFilters(db, kind, DefaultFilters[kind]); err != nil {
			logger.Error("Failed to seed filters", err, map[string]interface{}{
				"kind": kind,
			})
			return err
		}
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedFilters(db *gorm.DB, kind model.FilterKind, names []string) error {
	if len(names) == 0 {
		return nil
	}

	var count int64
	if err := db.Table(kind.Table()).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Filters already seeded, skipping...", map[string]interface{}{
			"kind":           kind,
			"existing_count": count,
		})
		return nil
	}

	options := make([]model.FilterOption, 0, len(names))
	for _, name := range names {
		options = append(options, model.FilterOption{Name: strings.TrimSpace(name)})
	}

	if err := db.Table(kind.Table()).Create(&options).Error; err != nil {
		return err
	}

	logger.Info("Filters seeded successfully", map[string]interface{}{
		"kind":  kind,
		"total": len(options),
	})
	return nil
}
