package repository

import (
	"testing"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFilterRepository_CRUD(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewFilterRepository(testDB, model.FilterLocations)
	assert.Equal(t, model.FilterLocations, repo.Kind())

	for _, name := range []string{"Whitefield", "Indiranagar", "Koramangala"} {
		require.NoError(t, repo.Create(&model.FilterOption{Name: name}))
	}

	options, err := repo.List()
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "Indiranagar", options[0].Name)
	assert.Equal(t, "Whitefield", options[2].Name)

	found, err := repo.FindByName("koramangala")
	require.NoError(t, err)
	assert.Equal(t, "Koramangala", found.Name)

	found.Name = "Koramangala 5th Block"
	require.NoError(t, repo.Update(found))

	reloaded, err := repo.FindByID(found.ID)
	require.NoError(t, err)
	assert.Equal(t, "Koramangala 5th Block", reloaded.Name)

	require.NoError(t, repo.Delete(found.ID))
	_, err = repo.FindByID(found.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(found.ID), gorm.ErrRecordNotFound)
}

func TestFilterRepository_KindsAreIsolated(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	locations := NewFilterRepository(testDB, model.FilterLocations)
	occupancy := NewFilterRepository(testDB, model.FilterOccupancyTypes)

	require.NoError(t, locations.Create(&model.FilterOption{Name: "HSR Layout"}))

	options, err := occupancy.List()
	require.NoError(t, err)
	assert.Empty(t, options)

	_, err = occupancy.FindByName("HSR Layout")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSeedFilters(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, db.SeedDB(testDB))
	require.NoError(t, db.SeedDB(testDB))

	propertyTypes, err := NewFilterRepository(testDB, model.FilterPropertyTypes).List()
	require.NoError(t, err)
	assert.Len(t, propertyTypes, 4)

	occupancy, err := NewFilterRepository(testDB, model.FilterOccupancyTypes).List()
	require.NoError(t, err)
	assert.Len(t, occupancy, 3)

	locations, err := NewFilterRepository(testDB, model.FilterLocations).List()
	require.NoError(t, err)
	assert.Empty(t, locations)
}
