package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/predictor/internal/domain/model"
)

// MemoryPredictionStore is a mutex-guarded in-memory PredictionStore.
type MemoryPredictionStore struct {
	mu    sync.RWMutex
	order []model.Prediction
	index map[string]int
}

// NewMemoryPredictionStore creates an empty store.
func NewMemoryPredictionStore() *MemoryPredictionStore {
	return &MemoryPredictionStore{index: make(map[string]int)}
}

// All returns a copy of the stored predictions.
func (s *MemoryPredictionStore) All(_ context.Context) ([]model.Prediction, error) {
	defer observe(BackendMemory, "all", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Prediction, len(s.order))
	copy(out, s.order)
	return out, nil
}

// Get returns the prediction for userID.
func (s *MemoryPredictionStore) Get(_ context.Context, userID string) (model.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[userID]
	if !ok {
		return model.Prediction{}, ErrNotFound
	}
	return s.order[i], nil
}

// Upsert inserts or replaces in place.
func (s *MemoryPredictionStore) Upsert(_ context.Context, p model.Prediction) error {
	defer observe(BackendMemory, "upsert", time.Now(), nil)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[p.UserID]; ok {
		s.order[i] = p
		return nil
	}
	s.index[p.UserID] = len(s.order)
	s.order = append(s.order, p)
	return nil
}

// Count returns the number of predictions.
func (s *MemoryPredictionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// MemoryResultStore is an in-memory ResultStore.
type MemoryResultStore struct {
	mu     sync.RWMutex
	result model.ActualResult
	set    bool
}

// NewMemoryResultStore creates an unset result store.
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{}
}

func (s *MemoryResultStore) Get(_ context.Context) (model.ActualResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.set, nil
}

func (s *MemoryResultStore) Set(_ context.Context, r model.ActualResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result, s.set = r, true
	return nil
}

func (s *MemoryResultStore) Has(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set, nil
}

func (s *MemoryResultStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result, s.set = model.ActualResult{}, false
	return nil
}
