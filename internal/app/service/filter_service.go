package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/model"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/app/repository"
	"github.com/rentmyproperty/rentmyproperty-backend/internal/cache"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"gorm.io/gorm"
)

const maxFilterNameLength = 100

// FilterService manages one taxonomy kind.
type FilterService interface {
	Kind() model.FilterKind
	List(ctx context.Context) ([]model.FilterOption, error)
	Get(id uint) (*model.FilterOption, error)
	Create(ctx context.Context, name string) (*model.FilterOption, error)
	Update(ctx context.Context, id uint, name string) (*model.FilterOption, error)
	Delete(ctx context.Context, id uint) error
}

type filterService struct {
	repo     repository.FilterRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewFilterService(repo repository.FilterRepository, responseCache cache.Cache, ttl time.Duration) FilterService {
	if responseCache == nil {
		responseCache = cache.Noop{}
	}
	return &filterService{repo: repo, cache: responseCache, cacheTTL: ttl}
}

func (s *filterService) Kind() model.FilterKind {
	return s.repo.Kind()
}

func (s *filterService) cacheKey() string {
	return "filters:" + string(s.repo.Kind())
}

func (s *filterService) List(ctx context.Context) ([]model.FilterOption, error) {
	var options []model.FilterOption
	gen, hit := readCache(ctx, s.cache, s.cacheKey(), &options)
	if hit {
		return options, nil
	}

	options, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = []model.FilterOption{}
	}

	writeCache(ctx, s.cache, gen, s.cacheKey(), options, s.cacheTTL)
	return options, nil
}

func (s *filterService) Get(id uint) (*model.FilterOption, error) {
	option, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFilterNotFound
		}
		return nil, err
	}
	return option, nil
}

func (s *filterService) Create(ctx context.Context, name string) (*model.FilterOption, error) {
	name, err := normalizeFilterName(name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(name, 0); err != nil {
		return nil, err
	}

	option := &model.FilterOption{Name: name}
	if err := s.repo.Create(option); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.Info("Filter option created", map[string]interface{}{
		"kind":      s.repo.Kind(),
		"option_id": option.ID,
		"name":      option.Name,
	})
	return option, nil
}

func (s *filterService) Update(ctx context.Context, id uint, name string) (*model.FilterOption, error) {
	name, err := normalizeFilterName(name)
	if err != nil {
		return nil, err
	}

	option, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(name, id); err != nil {
		return nil, err
	}

	option.Name = name
	if err := s.repo.Update(option); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.Info("Filter option updated", map[string]interface{}{
		"kind":      s.repo.Kind(),
		"option_id": option.ID,
		"name":      option.Name,
	})
	return option, nil
}

func (s *filterService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFilterNotFound
		}
		return err
	}

	s.invalidate(ctx)
	logger.Info("Filter option deleted", map[string]interface{}{
		"kind":      s.repo.Kind(),
		"option_id": id,
	})
	return nil
}

func (s *filterService) ensureUnique(name string, selfID uint) error {
	existing, err := s.repo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrFilterNameExists
	}
	return nil
}

func (s *filterService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Warn("Failed to invalidate response cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func normalizeFilterName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError(map[string]string{"name": "is required"})
	}
	if utf8.RuneCountInString(name) > maxFilterNameLength {
		return "", newValidationError(map[string]string{"name": "must be at most 100 characters"})
	}
	return name, nil
}
