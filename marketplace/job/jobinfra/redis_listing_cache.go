package jobinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/go-redis/redis/v8"
)

const (
	listingKeyPrefix  = "bitwork:jobs:listing"
	listingVersionKey = listingKeyPrefix + ":version"
)

// RedisListingCache implements job.ListingCache on Redis. Entries expire
// after ttl; Invalidate bumps a version counter that is part of every key,
// so old generations are never read again and age out on their own.
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisListingCache creates a new Redis-backed listing cache
func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisListingCache) Key(ctx context.Context, filterKey string) (string, error) {
	version, err := c.client.Get(ctx, listingVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("read listing version: %w", err)
	}
	return fmt.Sprintf("%s:v%d:%s", listingKeyPrefix, version, filterKey), nil
}

func (c *RedisListingCache) Get(ctx context.Context, key string) (*kernel.Paginated[job.Listing], bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get listing page: %w", err)
	}

	var page kernel.Paginated[job.Listing]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("decode listing page: %w", err)
	}
	return &page, true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, key string, page *kernel.Paginated[job.Listing]) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode listing page: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set listing page: %w", err)
	}
	return nil
}

func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, listingVersionKey).Err(); err != nil {
		return fmt.Errorf("bump listing version: %w", err)
	}
	return nil
}

// NoopListingCache disables listing caching. Its empty keys make the
// service skip Get and Set.
type NoopListingCache struct{}

func (NoopListingCache) Key(context.Context, string) (string, error) { return "", nil }

func (NoopListingCache) Get(context.Context, string) (*kernel.Paginated[job.Listing], bool, error) {
	return nil, false, nil
}

func (NoopListingCache) Set(context.Context, string, *kernel.Paginated[job.Listing]) error {
	return nil
}

func (NoopListingCache) Invalidate(context.Context) error { return nil }
