package oracle

import (
	"context"
	"time"

	domain "collateral-lending/internal/domain/oracle"
)

// Static always reports the same price, published at the time of the query.
type Static struct {
	price      uint64
	confidence uint64
}

func NewStatic(price, confidence uint64) *Static {
	return &Static{price: price, confidence: confidence}
}

func (s *Static) Price(_ context.Context, now time.Time) (domain.Reading, error) {
	return domain.Reading{Price: s.price, Confidence: s.confidence, PublishedAt: now.UTC()}, nil
}
