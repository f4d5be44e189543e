package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialCheckTimeout = 5 * time.Second

// OpenRedis connects and pings; the client backs request idempotency, the
// price feed and the event stream.
func OpenRedis(addr, password string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), dialCheckTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", addr, db, err)
	}
	return r, nil
}

// Pinger adapts a client to a health probe.
func Pinger(rdb redis.Cmdable) func(context.Context) error {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
