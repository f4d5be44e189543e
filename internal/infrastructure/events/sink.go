package events

import (
	"context"
	"log/slog"
	"sync"

	"collateral-lending/internal/domain/event"

	"github.com/google/uuid"
)

// LogSink writes one structured record per event.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Emit(ctx context.Context, e event.Event) {
	attrs := []slog.Attr{
		slog.String("event_id", uuid.NewString()),
		slog.String("type", string(e.Type)),
		slog.String("owner_id", e.OwnerID),
		slog.Uint64("amount", e.Amount),
		slog.Time("at", e.At),
	}
	if e.LoanID != 0 {
		attrs = append(attrs,
			slog.Uint64("loan_id", e.LoanID),
			slog.Int("rate_bps", int(e.RateBps)),
			slog.Uint64("collateral", e.Collateral),
		)
	}
	s.log.LogAttrs(ctx, slog.LevelInfo, "ledger event", attrs...)
}

// Recorder keeps emitted events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *Recorder) Emit(_ context.Context, e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

// Fanout emits to every sink in order.
type Fanout []event.Sink

func (f Fanout) Emit(ctx context.Context, e event.Event) {
	for _, s := range f {
		s.Emit(ctx, e)
	}
}
