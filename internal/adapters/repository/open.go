package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
)

// Options selects and configures a storage backend.
type Options struct {
	Backend string

	// file
	DataDir string

	// postgres
	PostgresDSN string

	// redis
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the prediction and result stores for opts.Backend. The returned
// closer releases the backend connection and is never nil on success.
func Open(ctx context.Context, opts Options) (PredictionStore, ResultStore, io.Closer, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryPredictionStore(), NewMemoryResultStore(), nopCloser{}, nil

	case BackendFile:
		preds, err := NewFilePredictionStore(opts.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		results, err := NewFileResultStore(opts.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return preds, results, nopCloser{}, nil

	case BackendPostgres:
		db, err := OpenPostgres(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		return openPostgres(ctx, db)

	case BackendRedis:
		client, err := NewRedisClient(ctx, &redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return NewRedisPredictionStore(client, opts.RedisKeyPrefix),
			NewRedisResultStore(client, opts.RedisKeyPrefix), client, nil
	}
	return nil, nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

func openPostgres(ctx context.Context, db *sql.DB) (PredictionStore, ResultStore, io.Closer, error) {
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	return NewPostgresPredictionStore(db), NewPostgresResultStore(db), db, nil
}
