// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/predictor/internal/adapters/repository"
	"github.com/okian/predictor/internal/domain/leaderboard"
	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/internal/domain/types"
	"github.com/okian/predictor/pkg/logger"
	"github.com/okian/predictor/pkg/metrics"
)

// ErrNotStarted is returned by operations called before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the prediction game.
type Service struct {
	mu sync.RWMutex

	// Core components
	predictions repository.PredictionStore
	results     repository.ResultStore
	closer      io.Closer
	builder     *leaderboard.Builder

	// submitMu serialises the lock check with the prediction write.
	submitMu sync.Mutex

	// Configuration
	storage      repository.Options
	injected     bool
	players      []model.Player
	fixture      model.Fixture
	lockOnResult bool
	now          func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStorage selects the backend opened on Start.
func WithStorage(opts repository.Options) Option {
	return func(s *Service) {
		s.storage = opts
	}
}

// WithStores uses already constructed stores instead of opening a backend.
func WithStores(preds repository.PredictionStore, results repository.ResultStore) Option {
	return func(s *Service) {
		if preds != nil && results != nil {
			s.predictions, s.results = preds, results
			s.injected = true
		}
	}
}

// WithPlayers sets the fixture roster.
func WithPlayers(players []model.Player) Option {
	return func(s *Service) {
		s.players = players
	}
}

// WithFixture sets the fixture description.
func WithFixture(f model.Fixture) Option {
	return func(s *Service) {
		s.fixture = f
	}
}

// WithLockOnResult rejects new predictions once a result is recorded.
func WithLockOnResult(lock bool) Option {
	return func(s *Service) {
		s.lockOnResult = lock
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storage: repository.Options{Backend: repository.BackendMemory},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the stores and prepares the leaderboard builder.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting prediction service...")

	if !s.injected {
		preds, results, closer, err := repository.Open(ctx, s.storage)
		if err != nil {
			return fmt.Errorf("open %s storage: %w", s.storage.Backend, err)
		}
		s.predictions, s.results, s.closer = preds, results, closer
		s.logger.Info(ctx, "storage opened", logger.String("backend", s.storage.Backend))
	}
	s.builder = leaderboard.NewBuilder(s.predictions, s.results,
		leaderboard.WithLogger(s.logger.Named("leaderboard")),
	)

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.Int("players", len(s.players)),
		logger.Bool("lockOnResult", s.lockOnResult),
	)
	return nil
}

// Stop releases the storage backend.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping prediction service...")

	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing storage", logger.Error(err))
		}
		s.closer = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Leaderboard recomputes the board from the current stores.
func (s *Service) Leaderboard(ctx context.Context) (types.Board, error) {
	if err := s.ready(); err != nil {
		return types.Board{}, err
	}
	board, err := s.builder.Compute(ctx)
	if err != nil {
		s.logger.Error(ctx, "leaderboard computation failed", logger.Error(err))
		return types.Board{}, err
	}
	return board, nil
}

// Prediction returns userID's prediction and whether one exists.
func (s *Service) Prediction(ctx context.Context, userID string) (model.Prediction, bool, error) {
	if err := s.ready(); err != nil {
		return model.Prediction{}, false, err
	}
	p, err := s.predictions.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Prediction{}, false, nil
	}
	if err != nil {
		return model.Prediction{}, false, err
	}
	return p, true, nil
}

// SubmitPrediction stamps p with the current time and upserts it. With
// lock-on-result enabled it fails with model.ErrPredictionsLocked once a
// result exists.
func (s *Service) SubmitPrediction(ctx context.Context, p model.Prediction) (model.Prediction, error) {
	if err := s.ready(); err != nil {
		return model.Prediction{}, err
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	if s.lockOnResult {
		has, err := s.results.Has(ctx)
		if err != nil {
			return model.Prediction{}, err
		}
		if has {
			metrics.RecordSubmissionRejected("locked")
			s.logger.Debug(ctx, "prediction rejected, result already recorded", logger.String("userId", p.UserID))
			return model.Prediction{}, model.ErrPredictionsLocked
		}
	}

	p.SubmittedAt = s.now().UTC()
	if err := s.predictions.Upsert(ctx, p); err != nil {
		metrics.RecordSubmissionRejected("storage")
		s.logger.Error(ctx, "storing prediction failed", logger.String("userId", p.UserID), logger.Error(err))
		return model.Prediction{}, err
	}
	metrics.RecordPredictionSubmitted()
	s.logger.Info(ctx, "prediction stored",
		logger.String("userId", p.UserID),
		logger.String("username", p.Username),
	)
	return p, nil
}

// Result returns the recorded result and whether one exists.
func (s *Service) Result(ctx context.Context) (model.ActualResult, bool, error) {
	if err := s.ready(); err != nil {
		return model.ActualResult{}, false, err
	}
	return s.results.Get(ctx)
}

// RecordResult stores r, replacing any earlier result. The next leaderboard
// computation reflects it.
func (s *Service) RecordResult(ctx context.Context, r model.ActualResult) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	if err := s.results.Set(ctx, r); err != nil {
		s.logger.Error(ctx, "recording result failed", logger.Error(err))
		return err
	}
	metrics.RecordResultRecorded()
	metrics.UpdateResultsAvailable(true)
	s.logger.Info(ctx, "result recorded",
		logger.Int("homeScore", r.HomeScore),
		logger.Int("awayScore", r.AwayScore),
	)
	return nil
}

// Players returns the fixture roster.
func (s *Service) Players(_ context.Context) []model.Player {
	out := make([]model.Player, len(s.players))
	copy(out, s.players)
	return out
}

// Fixture returns the fixture description.
func (s *Service) Fixture(_ context.Context) model.Fixture {
	return s.fixture
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"backend":      s.backendName(),
		"players":      len(s.players),
		"lockOnResult": s.lockOnResult,
	}

	if s.started {
		ctx := context.Background()
		if n, err := s.predictions.Count(ctx); err == nil {
			stats["totalPredictions"] = n
			metrics.UpdatePredictionsTotal(n)
		}
		if has, err := s.results.Has(ctx); err == nil {
			stats["resultsAvailable"] = has
			metrics.UpdateResultsAvailable(has)
		}
	}

	return stats
}

func (s *Service) backendName() string {
	if s.injected {
		return "injected"
	}
	if s.storage.Backend == "" {
		return repository.BackendMemory
	}
	return s.storage.Backend
}
