package storage

import (
	"context"
	"time"

	"gourmet-ordering/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	PopularityKey      = "popularity:items"
	dailyKeyPrefix     = "popularity:daily:"
	dailyKeyExpiration = 7 * 24 * time.Hour
)

// DailyKey names the per-day popularity set for the UTC date of at.
func DailyKey(at time.Time) string {
	return dailyKeyPrefix + at.UTC().Format("2006-01-02")
}

type Store struct {
	rdb redis.Cmdable
}

func NewStore(rdb redis.Cmdable) *Store {
	return &Store{rdb: rdb}
}

// RecordOrder adds each line's quantity to the all-time and daily popularity
// sets in one transaction. Lines without an item id or quantity are skipped.
func (s *Store) RecordOrder(ctx context.Context, lines []domain.OrderLine, at time.Time) error {
	dailyKey := DailyKey(at)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, line := range lines {
			if line.ItemID == "" || line.Quantity <= 0 {
				continue
			}
			pipe.ZIncrBy(ctx, PopularityKey, float64(line.Quantity), line.ItemID)
			pipe.ZIncrBy(ctx, dailyKey, float64(line.Quantity), line.ItemID)
		}
		pipe.Expire(ctx, dailyKey, dailyKeyExpiration)
		return nil
	})
	return err
}
