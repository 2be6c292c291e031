// Package cache holds short-lived read-through copies of listing responses.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrStale is returned by Set when the cache was invalidated after the
// generation passed in was read.
var ErrStale = errors.New("cache generation moved on")

// Cache stores serialized responses. InvalidateAll drops every entry at once
// and starts a new generation; mutating operations call it so readers never see
// a listing older than the last write.
//
// Get reports the generation it looked in. A reader that misses loads from the
// database and hands that generation back to Set, which stores the value only
// if no invalidation happened in between.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, int64, bool, error) { return nil, 0, false, nil }
func (Noop) Set(context.Context, int64, string, []byte, time.Duration) error { return nil }
func (Noop) InvalidateAll(context.Context) error { return nil }
