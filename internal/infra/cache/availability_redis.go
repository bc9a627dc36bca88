package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/assistant-calendar/internal/domain/appointment"
)

const DefaultTTL = 15 * time.Second

// AvailabilityRedisCache stores one key per (day, duration), each with its own
// TTL. Invalidation scans the day's keys and drops them all.
type AvailabilityRedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewAvailabilityRedisCache(rdb *redis.Client, ttl time.Duration, prefix string) *AvailabilityRedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "availability"
	}
	return &AvailabilityRedisCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *AvailabilityRedisCache) key(date string, durationMin int) string {
	return c.dayPrefix(date) + strconv.Itoa(durationMin)
}

func (c *AvailabilityRedisCache) dayPrefix(date string) string {
	return c.prefix + ":" + date + ":"
}

func (c *AvailabilityRedisCache) Get(
	ctx context.Context,
	date string,
	durationMin int,
) ([]domain.TimeSlot, bool, error) {

	raw, err := c.rdb.Get(ctx, c.key(date, durationMin)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (c *AvailabilityRedisCache) Set(
	ctx context.Context,
	date string,
	durationMin int,
	slots []domain.TimeSlot,
) error {

	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key(date, durationMin), payload, c.ttl).Err()
}

func (c *AvailabilityRedisCache) Invalidate(ctx context.Context, dates ...string) error {
	var keys []string
	for _, d := range dates {
		iter := c.rdb.Scan(ctx, 0, c.dayPrefix(d)+"*", 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func ReadyCheck(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if rdb == nil {
			return errors.New("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
}

var _ domain.SlotCache = (*AvailabilityRedisCache)(nil)
