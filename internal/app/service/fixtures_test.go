package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/repository"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/cache"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/db"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	pdfBytes = []byte("%PDF-1.4\n%fake document")
)

var errBucketDown = errors.New("bucket unreachable")

// fakeStorage wraps MemoryStorage with switchable failures.
type fakeStorage struct {
	*storage.MemoryStorage

	mu           sync.Mutex
	puts         int
	failPutAfter int
	publicErr    error
	deleteErr    error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{MemoryStorage: storage.NewMemoryStorage("https://cdn.test"), failPutAfter: -1}
}

func (f *fakeStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	f.mu.Lock()
	f.puts++
	fail := f.failPutAfter >= 0 && f.puts > f.failPutAfter
	f.mu.Unlock()
	if fail {
		return errBucketDown
	}
	return f.MemoryStorage.Put(ctx, key, contentType, body, size)
}

func (f *fakeStorage) MakePublic(ctx context.Context, key string) error {
	if f.publicErr != nil {
		return f.publicErr
	}
	return f.MemoryStorage.MakePublic(ctx, key)
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStorage.Delete(ctx, key)
}

type fixture struct {
	db         *gorm.DB
	store      *fakeStorage
	cache      *cache.Memory
	imageRepo  repository.PropertyImageRepository
	images     ImageService
	properties PropertyService
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store := newFakeStorage()
	memCache := cache.NewMemory()
	propertyRepo := repository.NewPropertyRepository(testDB)
	imageRepo := repository.NewPropertyImageRepository(testDB)

	images := NewImageService(propertyRepo, imageRepo, store, memCache, UploadLimits{
		MaxFileSize:     1 << 10,
		AllowedPrefixes: []string{"image/"},
	})

	return &fixture{
		db:         testDB,
		store:      store,
		cache:      memCache,
		imageRepo:  imageRepo,
		images:     images,
		properties: NewPropertyService(propertyRepo, imageRepo, images, memCache, time.Minute),
	}
}

func fileOf(name, contentType string, data []byte) UploadFile {
	return UploadFile{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func validInput(pid string) PropertyInput {
	return PropertyInput{
		PID:          strPtr(pid),
		Title:        strPtr("2BHK Flat"),
		Location:     strPtr("Sector 22"),
		Type:         strPtr("2 BHK"),
		Availability: strPtr("FOR ALL"),
		Furnishing:   []string{"Bed"},
		PropertyType: strPtr("Apartment"),
		Amenities:    []string{"Lift"},
		Price:        floatPtr(15000),
		Status:       strPtr("active"),
	}
}
