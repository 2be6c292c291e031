package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/repository"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/cache"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFilterServiceTest(t *testing.T, kind model.FilterKind) FilterService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewFilterService(repository.NewFilterRepository(testDB, kind), cache.NewMemory(), time.Minute)
}

func TestFilterService_RoundTrip(t *testing.T) {
	svc := setupFilterServiceTest(t, model.FilterLocations)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Sector 22")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, "Sector 23")
	require.NoError(t, err)
	assert.Equal(t, "Sector 23", updated.Name)

	found, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sector 23", found.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, ErrFilterNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrFilterNotFound)
}

func TestFilterService_CreateValidation(t *testing.T) {
	svc := setupFilterServiceTest(t, model.FilterPropertyTypes)
	ctx := context.Background()

	_, err := svc.Create(ctx, "  Villa  ")
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		wantErr error
		field   bool
	}{
		{name: "Blank", input: "   ", field: true},
		{name: "Too long", input: strings.Repeat("x", 101), field: true},
		{name: "Duplicate ignoring case", input: "villa", wantErr: ErrFilterNameExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			if tt.field {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.Fields, "name")
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = svc.Create(ctx, strings.Repeat("x", 100))
	assert.NoError(t, err)
}

func TestFilterService_UpdateConflicts(t *testing.T) {
	svc := setupFilterServiceTest(t, model.FilterOccupancyTypes)
	ctx := context.Background()

	family, err := svc.Create(ctx, "FAMILY ONLY")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "FOR ALL")
	require.NoError(t, err)

	_, err = svc.Update(ctx, family.ID, "for all")
	assert.ErrorIs(t, err, ErrFilterNameExists)

	// Renaming to its own name with different case is allowed.
	renamed, err := svc.Update(ctx, family.ID, "Family Only")
	require.NoError(t, err)
	assert.Equal(t, "Family Only", renamed.Name)

	_, err = svc.Update(ctx, 9999, "Anything")
	assert.ErrorIs(t, err, ErrFilterNotFound)
}

func TestFilterService_ListIsSortedAndFresh(t *testing.T) {
	svc := setupFilterServiceTest(t, model.FilterLocations)
	ctx := context.Background()

	for _, name := range []string{"Sector 9", "Sector 15", "DLF Phase 1"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	options, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "DLF Phase 1", options[0].Name)

	_, err = svc.Create(ctx, "Beta 2")
	require.NoError(t, err)

	options, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, options, 4)
	assert.Equal(t, "Beta 2", options[0].Name)
}
