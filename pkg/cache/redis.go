package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStorage. Storage backed by redis so cached routes survive engine
// restarts. Entries never expire from our side, eviction is left to the
// server's policy.
type RedisStorage struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisStorage(redisURL string, log *zap.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("redis route cache storage initialized", zap.String("addr", opt.Addr))
	return &RedisStorage{client: client, log: log}, nil
}

func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	blob, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

func (r *RedisStorage) Put(ctx context.Context, key string, blob []byte) error {
	return r.client.Set(ctx, key, blob, 0).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
