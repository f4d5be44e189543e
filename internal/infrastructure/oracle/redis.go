package oracle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"collateral-lending/internal/domain/lending"
	domain "collateral-lending/internal/domain/oracle"

	"github.com/redis/go-redis/v9"
)

const (
	fieldPrice       = "price"
	fieldConfidence  = "conf"
	fieldPublishedAt = "published_at"
)

// Redis reads the latest price a feeder wrote into the hash
// oracle:price:<asset>. published_at is unix seconds.
type Redis struct {
	rdb *redis.Client
	key string
}

func NewRedis(rdb *redis.Client, asset string) *Redis {
	return &Redis{rdb: rdb, key: "oracle:price:" + asset}
}

func (o *Redis) Key() string { return o.key }

func (o *Redis) Price(ctx context.Context, _ time.Time) (domain.Reading, error) {
	vals, err := o.rdb.HMGet(ctx, o.key, fieldPrice, fieldConfidence, fieldPublishedAt).Result()
	if err != nil {
		return domain.Reading{}, err
	}
	if vals[0] == nil || vals[2] == nil {
		return domain.Reading{}, fmt.Errorf("%w: nothing published under %s", lending.ErrInvalidPrice, o.key)
	}

	price, err := parseField(vals[0], fieldPrice)
	if err != nil {
		return domain.Reading{}, err
	}
	var conf uint64
	if vals[1] != nil {
		if conf, err = parseField(vals[1], fieldConfidence); err != nil {
			return domain.Reading{}, err
		}
	}
	published, err := parseField(vals[2], fieldPublishedAt)
	if err != nil {
		return domain.Reading{}, err
	}
	return domain.Reading{
		Price:       price,
		Confidence:  conf,
		PublishedAt: time.Unix(int64(published), 0).UTC(),
	}, nil
}

// Publish writes r as the current reading.
func (o *Redis) Publish(ctx context.Context, r domain.Reading) error {
	if r.PublishedAt.IsZero() {
		return errors.New("oracle: reading without publish time")
	}
	return o.rdb.HSet(ctx, o.key,
		fieldPrice, strconv.FormatUint(r.Price, 10),
		fieldConfidence, strconv.FormatUint(r.Confidence, 10),
		fieldPublishedAt, strconv.FormatInt(r.PublishedAt.Unix(), 10),
	).Err()
}

func parseField(v any, name string) (uint64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("%w: %s has type %T", lending.ErrInvalidPrice, name, v)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", lending.ErrInvalidPrice, name, s, err)
	}
	return n, nil
}
