package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rzbill/scrollback/internal/source"
	"github.com/rzbill/scrollback/pkg/log"
)

// DefaultBatchSize is used when Seed is given a non-positive batch size.
const DefaultBatchSize = 500

type options struct {
	gen    *Generator
	logger log.Logger
}

// Option configures Seed.
type Option func(*options)

// WithGenerator sets the draft source. The default is NewGenerator(1).
func WithGenerator(g *Generator) Option {
	return func(o *options) { o.gen = g }
}

// WithLogger sets the logger for batch progress.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Seed appends count generated drafts to app in batches and returns the
// assigned ids in order. Batches already committed stay committed when a
// later batch fails.
func Seed(ctx context.Context, app source.Appender, count, batchSize int, opts ...Option) ([]uint64, error) {
	if app == nil {
		return nil, errors.New("seed: nil appender")
	}
	if count < 0 {
		return nil, fmt.Errorf("seed: negative count %d", count)
	}
	o := options{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.gen == nil {
		o.gen = NewGenerator(1)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	logger := o.logger.WithComponent("seed")

	start := time.Now()
	ids := make([]uint64, 0, count)
	batch := make([]source.Draft, 0, min(batchSize, count))
	for len(ids) < count {
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		batch = batch[:0]
		for i := 0; i < batchSize && len(ids)+len(batch) < count; i++ {
			batch = append(batch, o.gen.Draft())
		}
		got, err := app.Append(ctx, batch)
		if err != nil {
			return ids, fmt.Errorf("seed: append batch at %d: %w", len(ids), err)
		}
		if len(got) != len(batch) {
			return ids, fmt.Errorf("seed: store assigned %d ids for %d drafts", len(got), len(batch))
		}
		ids = append(ids, got...)
		logger.Debug("batch appended", log.Int("size", len(got)), log.Int("total", len(ids)))
	}
	logger.Info("seeded",
		log.Int("count", len(ids)),
		log.Int("batch_size", batchSize),
		log.Duration("took", time.Since(start)))
	return ids, nil
}
