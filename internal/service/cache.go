package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func statsCacheKey(surveyID string) string {
	return fmt.Sprintf("stats:survey:%s", surveyID)
}

func analyticsCacheKey(userID string) string {
	return fmt.Sprintf("analytics:user:%s", userID)
}

// readCache decodes a cached JSON document. It reports false on a miss or any failure.
func readCache(ctx context.Context, cache *redis.Client, logger zerolog.Logger, key string, target interface{}) bool {
	if cache == nil {
		return false
	}
	cached, err := cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("cache_key", key).Msg("failed to read cache")
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), target); err != nil {
		logger.Warn().Err(err).Str("cache_key", key).Msg("discarding malformed cache entry")
		return false
	}
	return true
}

func writeCache(ctx context.Context, cache *redis.Client, logger zerolog.Logger, key string, value interface{}, ttl time.Duration) {
	if cache == nil || ttl <= 0 {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("cache_key", key).Msg("failed to encode cache entry")
		return
	}
	if err := cache.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("cache_key", key).Msg("failed to store cache")
	}
}

func invalidateCache(ctx context.Context, cache *redis.Client, logger zerolog.Logger, keys ...string) {
	if cache == nil || len(keys) == 0 {
		return
	}
	if err := cache.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Strs("cache_keys", keys).Msg("failed to invalidate cache")
	}
}
