package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/dto"
)

const courseListVersionKey = "courses:list:version"

// CourseListCache is a read-through cache for course listings. Entries are keyed
// by a version counter; bumping the version orphans every cached listing at once.
// A nil cache or a cache without a client is a no-op.
type CourseListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCourseListCache builds a cache over the given redis client.
func NewCourseListCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CourseListCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CourseListCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "course_cache").Logger(),
	}
}

func (c *CourseListCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *CourseListCache) key(ctx context.Context, filter string) (string, error) {
	version, err := c.client.Get(ctx, courseListVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("courses:list:v%d:%s", version, filter), nil
}

// Get returns a cached listing for the filter together with the versioned key
// it was looked up under. The key is empty when the cache is unavailable.
func (c *CourseListCache) Get(ctx context.Context, filter string) (dto.CourseListResponse, string, bool) {
	if !c.enabled() {
		return dto.CourseListResponse{}, "", false
	}

	key, err := c.key(ctx, filter)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read course cache version")
		return dto.CourseListResponse{}, "", false
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("failed to read course cache")
		}
		return dto.CourseListResponse{}, key, false
	}

	var response dto.CourseListResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		return dto.CourseListResponse{}, key, false
	}
	c.logger.Debug().Str("key", key).Msg("course list cache hit")
	return response, key, true
}

// Set stores a listing under the key returned by Get. Rows read before a
// version bump therefore land under the superseded version.
func (c *CourseListCache) Set(ctx context.Context, key string, response dto.CourseListResponse) {
	if !c.enabled() || key == "" {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to store course cache")
	}
}

// Invalidate bumps the listing version.
func (c *CourseListCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, courseListVersionKey).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to invalidate course cache")
	}
}
