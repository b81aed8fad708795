package oauthstate

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
)

const keyPrefix = "vanta:oauth-state:"

// RedisStore keeps issued OAuth state tokens in Redis with a TTL. GETDEL on
// consume guarantees each state is redeemable exactly once even across
// replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, state string) error {
	return s.client.Set(ctx, keyPrefix+state, time.Now().UTC().Format(time.RFC3339), s.ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, state string) (bool, error) {
	_, err := s.client.GetDel(ctx, keyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ compliance.StateStore = (*RedisStore)(nil)
