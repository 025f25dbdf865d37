package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// TokenCache implements auth.TokenCache on a shared Redis instance. All
// service instances must point at the same instance so refresh-token
// revocation, reset-password identifiers, and OAuth state survive callbacks
// landing on a different instance than the one that initiated the flow.
type TokenCache struct {
	db redis.UniversalClient
}

func NewTokenCache(client redis.UniversalClient) *TokenCache {
	return &TokenCache{db: client}
}

func (c *TokenCache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.db.Set(ctx, key, value, ttl).Err()
}

func (c *TokenCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.db.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetAndDelete consumes the entry with a single GETDEL round trip. Redis
// executes it atomically, so concurrent redeemers of the same single-use
// token race on the server and exactly one of them gets the value.
func (c *TokenCache) GetAndDelete(ctx context.Context, key string) (string, error) {
	value, err := c.db.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", auth.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (c *TokenCache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.db.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ auth.TokenCache = (*TokenCache)(nil)
