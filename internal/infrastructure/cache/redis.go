package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"agrifin-backend/internal/domain/user"
)

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// PrincipalCache keeps bearer token -> principal lookups in redis so the
// auth middleware skips the database on warm tokens.
type PrincipalCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPrincipalCache(rdb *redis.Client, ttl time.Duration) *PrincipalCache {
	return &PrincipalCache{rdb: rdb, ttl: ttl}
}

func principalKey(token string) string { return "auth:token:" + token }

// Get returns (nil, nil) on a miss.
func (c *PrincipalCache) Get(ctx context.Context, token string) (*user.Principal, error) {
	raw, err := c.rdb.Get(ctx, principalKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p user.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *PrincipalCache) Set(ctx context.Context, token string, p user.Principal) error {
	if c.ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, principalKey(token), b, c.ttl).Err()
}
