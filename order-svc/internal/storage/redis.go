package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type RedisFavorites struct {
	Client *redis.Client
}

func NewRedisFavorites(client *redis.Client) *RedisFavorites {
	return &RedisFavorites{Client: client}
}

func (c *RedisFavorites) Load(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoState
	}
	return payload, err
}

// Save keeps favorites without expiry.
func (c *RedisFavorites) Save(ctx context.Context, key string, payload []byte) error {
	return c.Client.Set(ctx, key, payload, 0).Err()
}
