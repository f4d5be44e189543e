package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"collateral-lending/internal/domain/event"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStream appends events to a Redis stream for downstream consumers.
// Each entry has an event_id, the type and the JSON encoded event.
type RedisStream struct {
	rdb    redis.Cmdable
	stream string
	maxLen int64
	log    *slog.Logger
}

// NewRedisStream trims the stream to roughly maxLen entries; zero keeps
// everything.
func NewRedisStream(rdb redis.Cmdable, stream string, maxLen int64, log *slog.Logger) *RedisStream {
	if log == nil {
		log = slog.Default()
	}
	return &RedisStream{rdb: rdb, stream: stream, maxLen: maxLen, log: log}
}

// Emit never fails the caller: the ledger change is already committed, so a
// publish error is only logged.
func (s *RedisStream) Emit(ctx context.Context, e event.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		s.log.Error("events: encode", "type", e.Type, "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"event_id": uuid.NewString(),
			"type":     string(e.Type),
			"payload":  payload,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.rdb.XAdd(ctx, args).Err(); err != nil {
		s.log.Warn("events: publish", "stream", s.stream, "type", e.Type, "owner_id", e.OwnerID, "err", err)
	}
}
