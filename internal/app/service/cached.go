package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/internal/cache"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
)

// readCache decodes key into dst and returns the generation it looked in.
// Cache errors count as misses.
func readCache(ctx context.Context, c cache.Cache, key string, dst interface{}) (int64, bool) {
	data, gen, ok, err := c.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return gen, false
	}
	if !ok {
		return gen, false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("Cache entry is corrupt", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return gen, false
	}
	return gen, true
}

// writeCache stores value under the generation readCache returned. Entries
// computed before a later invalidation are dropped.
func writeCache(ctx context.Context, c cache.Cache, gen int64, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	err = c.Set(ctx, gen, key, data, ttl)
	switch {
	case errors.Is(err, cache.ErrStale):
		logger.Debug("Cache fill skipped after invalidation", map[string]interface{}{
			"key":        key,
			"generation": gen,
		})
	case err != nil:
		logger.Warn("Cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
