package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a fixed window counter shared by every API instance.
type RedisStore struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, limit int, window time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, limit: limit, window: window}
}

// Take counts a request in the current window. The window key is created
// with its expiry and incremented in one MULTI block, so a counter can never
// exist without a TTL.
func (s *RedisStore) Take(ctx context.Context, key string) (Result, error) {
	k := s.prefix + key

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, s.window)
		incr = pipe.Incr(ctx, k)
		pttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	count := incr.Val()
	ttl := pttl.Val()
	if ttl <= 0 {
		ttl = s.window
	}

	remaining := s.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   int(count) <= s.limit,
		Limit:     s.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// NewRedisClient connects to addr and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
