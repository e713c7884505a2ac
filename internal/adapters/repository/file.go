package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/predictor/internal/domain/model"
)

// File names inside the data directory.
const (
	PredictionsFile = "predictions.json"
	ResultsFile     = "results.json"

	dataDirPermission  = 0o750
	dataFilePermission = 0o600
)

// FilePredictionStore keeps predictions as a JSON array in dir/predictions.json.
// The file is re-read on every call so edits made outside the process are seen.
type FilePredictionStore struct {
	mu   sync.Mutex
	path string
}

// NewFilePredictionStore creates the data directory if needed.
func NewFilePredictionStore(dir string) (*FilePredictionStore, error) {
	if err := os.MkdirAll(dir, dataDirPermission); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FilePredictionStore{path: filepath.Join(dir, PredictionsFile)}, nil
}

func (s *FilePredictionStore) load() ([]model.Prediction, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Prediction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var preds []model.Prediction
	if len(bytes.TrimSpace(raw)) == 0 {
		return []model.Prediction{}, nil
	}
	if err := json.Unmarshal(raw, &preds); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	if preds == nil {
		preds = []model.Prediction{}
	}
	return preds, nil
}

// All returns predictions in file order.
func (s *FilePredictionStore) All(_ context.Context) (preds []model.Prediction, err error) {
	defer func(start time.Time) { observe(BackendFile, "all", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the prediction for userID.
func (s *FilePredictionStore) Get(_ context.Context, userID string) (model.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	preds, err := s.load()
	if err != nil {
		return model.Prediction{}, err
	}
	for _, p := range preds {
		if p.UserID == userID {
			return p, nil
		}
	}
	return model.Prediction{}, ErrNotFound
}

// Upsert replaces the existing entry in place or appends a new one.
func (s *FilePredictionStore) Upsert(_ context.Context, p model.Prediction) (err error) {
	defer func(start time.Time) { observe(BackendFile, "upsert", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	preds, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range preds {
		if preds[i].UserID == p.UserID {
			preds[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		preds = append(preds, p)
	}
	return writeJSONFile(s.path, preds)
}

// Count returns the number of predictions in the file.
func (s *FilePredictionStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	preds, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(preds), nil
}

// FileResultStore keeps the result in dir/results.json. A missing file or a
// JSON null means no result has been recorded.
type FileResultStore struct {
	mu   sync.Mutex
	path string
}

// NewFileResultStore creates the data directory if needed.
func NewFileResultStore(dir string) (*FileResultStore, error) {
	if err := os.MkdirAll(dir, dataDirPermission); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileResultStore{path: filepath.Join(dir, ResultsFile)}, nil
}

func (s *FileResultStore) load() (model.ActualResult, bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.ActualResult{}, false, nil
	}
	if err != nil {
		return model.ActualResult{}, false, fmt.Errorf("read %s: %w", s.path, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return model.ActualResult{}, false, nil
	}
	var r model.ActualResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.ActualResult{}, false, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	return r, true, nil
}

func (s *FileResultStore) Get(_ context.Context) (r model.ActualResult, ok bool, err error) {
	defer func(start time.Time) { observe(BackendFile, "result_get", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileResultStore) Set(_ context.Context, r model.ActualResult) (err error) {
	defer func(start time.Time) { observe(BackendFile, "result_set", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONFile(s.path, r)
}

func (s *FileResultStore) Has(ctx context.Context) (bool, error) {
	_, ok, err := s.Get(ctx)
	return ok, err
}

func (s *FileResultStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONFile(s.path, nil)
}

// writeJSONFile writes v next to path and renames it over path.
func writeJSONFile(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(dataFilePermission); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
