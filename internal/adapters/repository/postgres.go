package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/okian/predictor/internal/domain/model"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
		seq               BIGSERIAL,
		user_id           TEXT PRIMARY KEY,
		username          TEXT NOT NULL,
		home_score        INTEGER NOT NULL,
		away_score        INTEGER NOT NULL,
		first_goal_minute INTEGER NOT NULL,
		first_scorer_id   INTEGER NOT NULL,
		corners           INTEGER NOT NULL,
		possession        INTEGER NOT NULL,
		submitted_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS match_result (
		id                SMALLINT PRIMARY KEY CHECK (id = 1),
		home_score        INTEGER NOT NULL,
		away_score        INTEGER NOT NULL,
		first_goal_minute INTEGER NOT NULL,
		first_scorer_id   INTEGER NOT NULL,
		corners           INTEGER NOT NULL,
		possession        INTEGER NOT NULL,
		recorded_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

const (
	selectPredictionColumns = `SELECT user_id, username, home_score, away_score, first_goal_minute, first_scorer_id, corners, possession, submitted_at FROM predictions`

	queryAllPredictions  = selectPredictionColumns + ` ORDER BY seq`
	queryGetPrediction   = selectPredictionColumns + ` WHERE user_id = $1`
	queryCountPrediction = `SELECT COUNT(*) FROM predictions`

	// seq is left untouched on conflict so a replacement keeps its place.
	upsertPrediction = `INSERT INTO predictions (user_id, username, home_score, away_score, first_goal_minute, first_scorer_id, corners, possession, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id) DO UPDATE SET
	username = EXCLUDED.username,
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	first_goal_minute = EXCLUDED.first_goal_minute,
	first_scorer_id = EXCLUDED.first_scorer_id,
	corners = EXCLUDED.corners,
	possession = EXCLUDED.possession,
	submitted_at = EXCLUDED.submitted_at`

	queryResult  = `SELECT home_score, away_score, first_goal_minute, first_scorer_id, corners, possession FROM match_result WHERE id = 1`
	upsertResult = `INSERT INTO match_result (id, home_score, away_score, first_goal_minute, first_scorer_id, corners, possession, recorded_at)
VALUES (1, $1, $2, $3, $4, $5, $6, now())
ON CONFLICT (id) DO UPDATE SET
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	first_goal_minute = EXCLUDED.first_goal_minute,
	first_scorer_id = EXCLUDED.first_scorer_id,
	corners = EXCLUDED.corners,
	possession = EXCLUDED.possession,
	recorded_at = EXCLUDED.recorded_at`
	deleteResult = `DELETE FROM match_result WHERE id = 1`
)

// OpenPostgres opens and pings a lib/pq connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (model.Prediction, error) {
	var p model.Prediction
	err := row.Scan(&p.UserID, &p.Username, &p.HomeScore, &p.AwayScore, &p.FirstGoalMinute,
		&p.FirstScorerID, &p.Corners, &p.Possession, &p.SubmittedAt)
	return p, err
}

// PostgresPredictionStore stores predictions in the predictions table.
type PostgresPredictionStore struct {
	db *sql.DB
}

// NewPostgresPredictionStore wraps an open database.
func NewPostgresPredictionStore(db *sql.DB) *PostgresPredictionStore {
	return &PostgresPredictionStore{db: db}
}

// All returns predictions ordered by first insertion.
func (s *PostgresPredictionStore) All(ctx context.Context) (preds []model.Prediction, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "all", start, err) }(time.Now())

	rows, err := s.db.QueryContext(ctx, queryAllPredictions)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	preds = []model.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return preds, nil
}

// Get returns the prediction for userID.
func (s *PostgresPredictionStore) Get(ctx context.Context, userID string) (p model.Prediction, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "get", start, err) }(time.Now())

	p, err = scanPrediction(s.db.QueryRowContext(ctx, queryGetPrediction, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Prediction{}, ErrNotFound
	}
	if err != nil {
		return model.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	return p, nil
}

// Upsert inserts or replaces the prediction of p.UserID.
func (s *PostgresPredictionStore) Upsert(ctx context.Context, p model.Prediction) (err error) {
	defer func(start time.Time) { observe(BackendPostgres, "upsert", start, err) }(time.Now())

	_, err = s.db.ExecContext(ctx, upsertPrediction, p.UserID, p.Username, p.HomeScore, p.AwayScore,
		p.FirstGoalMinute, p.FirstScorerID, p.Corners, p.Possession, p.SubmittedAt)
	if err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}
	return nil
}

// Count returns the number of rows in predictions.
func (s *PostgresPredictionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, queryCountPrediction).Scan(&n); err != nil {
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return n, nil
}

// PostgresResultStore keeps the result as the single row of match_result.
// No row means no result.
type PostgresResultStore struct {
	db *sql.DB
}

// NewPostgresResultStore wraps an open database.
func NewPostgresResultStore(db *sql.DB) *PostgresResultStore {
	return &PostgresResultStore{db: db}
}

func (s *PostgresResultStore) Get(ctx context.Context) (r model.ActualResult, ok bool, err error) {
	defer func(start time.Time) { observe(BackendPostgres, "result_get", start, err) }(time.Now())

	err = s.db.QueryRowContext(ctx, queryResult).Scan(&r.HomeScore, &r.AwayScore, &r.FirstGoalMinute,
		&r.FirstScorerID, &r.Corners, &r.Possession)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ActualResult{}, false, nil
	}
	if err != nil {
		return model.ActualResult{}, false, fmt.Errorf("get result: %w", err)
	}
	return r, true, nil
}

func (s *PostgresResultStore) Set(ctx context.Context, r model.ActualResult) (err error) {
	defer func(start time.Time) { observe(BackendPostgres, "result_set", start, err) }(time.Now())

	_, err = s.db.ExecContext(ctx, upsertResult, r.HomeScore, r.AwayScore, r.FirstGoalMinute,
		r.FirstScorerID, r.Corners, r.Possession)
	if err != nil {
		return fmt.Errorf("set result: %w", err)
	}
	return nil
}

func (s *PostgresResultStore) Has(ctx context.Context) (bool, error) {
	_, ok, err := s.Get(ctx)
	return ok, err
}

func (s *PostgresResultStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, deleteResult); err != nil {
		return fmt.Errorf("clear result: %w", err)
	}
	return nil
}
