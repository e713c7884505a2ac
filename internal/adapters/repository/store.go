// Package repository defines the prediction and result stores and their
// backends (memory, JSON files, Postgres, Redis).
package repository

import (
	"context"
	"time"

	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/pkg/metrics"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// PredictionStore keeps at most one prediction per participant.
type PredictionStore interface {
	// All returns every prediction in first-submission order. Replacing a
	// prediction keeps its position.
	All(ctx context.Context) ([]model.Prediction, error)
	// Get returns the prediction of userID or ErrNotFound.
	Get(ctx context.Context, userID string) (model.Prediction, error)
	// Upsert stores p, fully replacing any earlier prediction by the same user.
	Upsert(ctx context.Context, p model.Prediction) error
	// Count returns the number of stored predictions.
	Count(ctx context.Context) (int, error)
}

// ResultStore holds the single actual result. Presence is explicit: Get
// reports ok=false until Set is called, whatever the field values are.
type ResultStore interface {
	Get(ctx context.Context) (model.ActualResult, bool, error)
	Set(ctx context.Context, r model.ActualResult) error
	Has(ctx context.Context) (bool, error)
	// Clear returns the store to the unset state.
	Clear(ctx context.Context) error
}

// observe records latency and errors for one repository call.
func observe(backend, op string, start time.Time, err error) {
	metrics.RecordRepositoryOperation(backend, op, float64(time.Since(start).Microseconds())/1000, err)
}
