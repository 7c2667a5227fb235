package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gourmet-ordering/menu-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("menu not cached")

const (
	MenuCacheKey  = "menu:categories"
	PopularityKey = "popularity:items"
)

type RedisMenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{Client: client, TTL: ttl}
}

func (c *RedisMenuCache) Load(ctx context.Context) ([]domain.Category, error) {
	payload, err := c.Client.Get(ctx, MenuCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var categories []domain.Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *RedisMenuCache) Store(ctx context.Context, categories []domain.Category) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, MenuCacheKey, payload, c.TTL).Err()
}

// RedisPopularity reads the order counters maintained by agg-svc.
type RedisPopularity struct {
	Client *redis.Client
}

func NewRedisPopularity(client *redis.Client) *RedisPopularity {
	return &RedisPopularity{Client: client}
}

func (p *RedisPopularity) TopItemIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	return p.Client.ZRevRange(ctx, PopularityKey, 0, int64(limit-1)).Result()
}
