package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/internal/domain/types"
	"github.com/okian/predictor/pkg/logger"
	"github.com/okian/predictor/pkg/metrics"
)

// PredictionLister returns every stored prediction in store order.
type PredictionLister interface {
	All(ctx context.Context) ([]model.Prediction, error)
}

// ResultGetter returns the recorded result and whether one exists.
type ResultGetter interface {
	Get(ctx context.Context) (model.ActualResult, bool, error)
}

// Builder reads a snapshot from its repositories and runs Build over it.
type Builder struct {
	predictions PredictionLister
	results     ResultGetter
	logger      logger.Logger
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder over the given repositories.
func NewBuilder(predictions PredictionLister, results ResultGetter, opts ...Option) *Builder {
	b := &Builder{
		predictions: predictions,
		results:     results,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("leaderboard")
	}
	return b
}

// Compute fetches all predictions and the current result, then builds the board.
func (b *Builder) Compute(ctx context.Context) (types.Board, error) {
	start := time.Now()

	preds, err := b.predictions.All(ctx)
	if err != nil {
		metrics.RecordLeaderboardError()
		return types.Board{}, fmt.Errorf("%w: %w", ErrReadPredictions, err)
	}
	result, present, err := b.results.Get(ctx)
	if err != nil {
		metrics.RecordLeaderboardError()
		return types.Board{}, fmt.Errorf("%w: %w", ErrReadResult, err)
	}

	board := Build(preds, result, present)

	if present {
		metrics.RecordScoringInvocations(len(preds))
	}
	elapsed := time.Since(start)
	metrics.RecordLeaderboardComputation(float64(elapsed.Microseconds()) / 1000)
	b.logger.Debug(ctx, "leaderboard computed",
		logger.Int("entries", len(board.Entries)),
		logger.Bool("resultsAvailable", present),
		logger.Duration("took", elapsed),
	)
	return board, nil
}
