package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Semicile17/Campus-Connect/internal/model"
)

const coursesKey = "campus:catalog:courses"

// Catalog caches the course list. With a nil client every read misses and
// every write is dropped.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalog(client *redis.Client, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{client: client, ttl: ttl}
}

func (c *Catalog) Enabled() bool {
	return c != nil && c.client != nil
}

// Courses returns the cached catalog. ok is false on a miss.
func (c *Catalog) Courses(ctx context.Context) ([]model.Course, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, coursesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "read catalog cache")
	}
	var courses []model.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, false, errors.Wrap(err, "decode catalog cache")
	}
	return courses, true, nil
}

func (c *Catalog) StoreCourses(ctx context.Context, courses []model.Course) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(courses)
	if err != nil {
		return errors.Wrap(err, "encode catalog cache")
	}
	return errors.Wrap(c.client.Set(ctx, coursesKey, raw, c.ttl).Err(), "write catalog cache")
}

// Invalidate drops the cached catalog after a course or subject changes.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return errors.Wrap(c.client.Del(ctx, coursesKey).Err(), "invalidate catalog cache")
}
