package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rentmyproperty/rentmyproperty-backend/config"
	"github.com/rentmyproperty/rentmyproperty-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "rmp:cache"

// Redis namespaces every key with a generation number. InvalidateAll bumps the
// generation, so old keys become unreachable and expire on their own TTL.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) generationKey() string {
	return r.prefix + ":generation"
}

func (r *Redis) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *Redis) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, gen, key)
}

// setIfCurrent writes KEYS[2] only while KEYS[1] still holds generation ARGV[1].
// A missing generation key counts as generation 0.
var setIfCurrent = redis.NewScript(`
local gen = redis.call("GET", KEYS[1]) or "0"
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[2], ARGV[2])
end
return 1
`)

func (r *Redis) Get(ctx context.Context, key string) ([]byte, int64, bool, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	value, err := r.client.Get(ctx, r.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}
	return value, gen, true, nil
}

func (r *Redis) Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error {
	stored, err := setIfCurrent.Run(ctx, r.client,
		[]string{r.generationKey(), r.entryKey(gen, key)},
		strconv.FormatInt(gen, 10), value, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return err
	}
	if stored == 0 {
		return ErrStale
	}
	return nil
}

func (r *Redis) InvalidateAll(ctx context.Context) error {
	gen, err := r.client.Incr(ctx, r.generationKey()).Result()
	if err != nil {
		logger.Error("Failed to bump cache generation", err)
		return err
	}

	logger.Debug("Cache invalidated", map[string]interface{}{
		"generation": gen,
	})
	return nil
}
