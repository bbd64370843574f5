package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "tokenguard/pkg/platform/audit"
)

// Source yields outbox entries not yet relayed.
type Source interface {
	Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Sink delivers entries to the event stream.
type Sink interface {
	Publish(ctx context.Context, entries []audit.OutboxEntry) error
}

// Worker relays outbox entries to a sink on a fixed interval. Entries are
// marked published only after the sink accepted the whole batch, so a
// failed batch is retried on the next tick.
type Worker struct {
	source   Source
	sink     Sink
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

type Option func(*Worker)

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		w.interval = d
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		w.batch = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(source Source, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		source:   source,
		sink:     sink,
		interval: time.Second,
		batch:    100,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.RelayOnce(ctx); err != nil {
				w.logger.WarnContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce moves one batch and reports how many entries were published.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	entries, err := w.source.Pending(ctx, w.batch)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := w.sink.Publish(ctx, entries); err != nil {
		return 0, err
	}
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := w.source.MarkPublished(ctx, ids); err != nil {
		return 0, err
	}
	return len(entries), nil
}
