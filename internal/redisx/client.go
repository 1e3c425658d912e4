package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// PushRecent prepends an entry to the recent-activity list and trims it to
// RecentActivityMax.
func PushRecent(ctx context.Context, rdb *redis.Client, entry []byte) error {
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, KeyRecentActivity, entry)
	pipe.LTrim(ctx, KeyRecentActivity, 0, RecentActivityMax-1)
	_, err := pipe.Exec(ctx)
	return err
}
