package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskhive/backend/repository"
)

type unreadCounterRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewUnreadCounterRepository creates the Redis cache for per-user unread
// notification counts. Entries expire so a stale counter self-heals from
// the notification store.
func NewUnreadCounterRepository(client *redislib.Client, ttl time.Duration) repository.UnreadCounterRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &unreadCounterRepository{
		client: client,
		prefix: "unread:",
		ttl:    ttl,
	}
}

func (r *unreadCounterRepository) Add(ctx context.Context, userID string, delta int) error {
	key := r.key(userID)

	pipe := r.client.TxPipeline()
	pipe.IncrBy(ctx, key, int64(delta))
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *unreadCounterRepository) Set(ctx context.Context, userID string, value int) error {
	return r.client.Set(ctx, r.key(userID), value, r.ttl).Err()
}

func (r *unreadCounterRepository) Get(ctx context.Context, userID string) (int, bool, error) {
	value, err := r.client.Get(ctx, r.key(userID)).Int()
	if err != nil {
		if err == redislib.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	if value < 0 {
		value = 0
	}
	return value, true, nil
}

func (r *unreadCounterRepository) Reset(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.key(userID)).Err()
}

func (r *unreadCounterRepository) key(userID string) string {
	return fmt.Sprintf("%s%s", r.prefix, userID)
}
