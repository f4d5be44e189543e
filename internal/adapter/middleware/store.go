package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// entry is what the store keeps per key: a pending marker while the first
// request runs, then the recorded response.
type entry struct {
	Pending     bool      `json:"pending"`
	Status      int       `json:"status"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e entry) replayable() bool { return !e.Pending && e.Status != 0 && len(e.Body) > 0 }

type store struct{ rdb redis.Cmdable }

// claim stores e under key unless the key exists; false means another
// request got there first.
func (s store) claim(ctx context.Context, key string, e entry, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, ttl).Result()
}

func (s store) load(ctx context.Context, key string) (entry, error) {
	var e entry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

func (s store) finish(ctx context.Context, key string, e entry, ttl time.Duration) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}

func (s store) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
