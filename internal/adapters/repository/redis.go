package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/predictor/internal/domain/model"
)

// DefaultRedisKeyPrefix namespaces every key the Redis stores write.
const DefaultRedisKeyPrefix = "predictor"

// upsertScript writes the prediction and appends the user to the order list
// only when the hash field is new, so a replacement keeps its position.
var upsertScript = redis.NewScript(`
local added = redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
if added == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
end
return added
`)

type redisKeys struct {
	predictions string
	order       string
	result      string
}

func newRedisKeys(prefix string) redisKeys {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return redisKeys{
		predictions: prefix + ":predictions",
		order:       prefix + ":predictions:order",
		result:      prefix + ":result",
	}
}

// NewRedisClient connects and pings a go-redis client.
func NewRedisClient(ctx context.Context, opt *redis.Options) (*redis.Client, error) {
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opt.Addr, err)
	}
	return client, nil
}

// RedisPredictionStore keeps predictions as JSON values of a hash keyed by
// user id, with a list recording first-submission order.
type RedisPredictionStore struct {
	client *redis.Client
	keys   redisKeys
}

// NewRedisPredictionStore uses client with keys under prefix.
func NewRedisPredictionStore(client *redis.Client, prefix string) *RedisPredictionStore {
	return &RedisPredictionStore{client: client, keys: newRedisKeys(prefix)}
}

// All returns predictions in first-submission order.
func (s *RedisPredictionStore) All(ctx context.Context) (preds []model.Prediction, err error) {
	defer func(start time.Time) { observe(BackendRedis, "all", start, err) }(time.Now())

	ids, err := s.client.LRange(ctx, s.keys.order, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read order: %w", err)
	}
	preds = make([]model.Prediction, 0, len(ids))
	if len(ids) == 0 {
		return preds, nil
	}
	values, err := s.client.HMGet(ctx, s.keys.predictions, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// order entry without a hash field
			continue
		}
		var p model.Prediction
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("%w: prediction %s: %w", ErrCorrupt, ids[i], err)
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// Get returns the prediction for userID.
func (s *RedisPredictionStore) Get(ctx context.Context, userID string) (p model.Prediction, err error) {
	defer func(start time.Time) { observe(BackendRedis, "get", start, err) }(time.Now())

	raw, err := s.client.HGet(ctx, s.keys.predictions, userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Prediction{}, ErrNotFound
	}
	if err != nil {
		return model.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: prediction %s: %w", ErrCorrupt, userID, err)
	}
	return p, nil
}

// Upsert stores p atomically through a Lua script.
func (s *RedisPredictionStore) Upsert(ctx context.Context, p model.Prediction) (err error) {
	defer func(start time.Time) { observe(BackendRedis, "upsert", start, err) }(time.Now())

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	keys := []string{s.keys.predictions, s.keys.order}
	if err := upsertScript.Run(ctx, s.client, keys, p.UserID, raw).Err(); err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}
	return nil
}

// Count returns the number of fields in the predictions hash.
func (s *RedisPredictionStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, s.keys.predictions).Result()
	if err != nil {
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return int(n), nil
}

// RedisResultStore keeps the result as one JSON string key. A missing key is
// the unset state.
type RedisResultStore struct {
	client *redis.Client
	keys   redisKeys
}

// NewRedisResultStore uses client with keys under prefix.
func NewRedisResultStore(client *redis.Client, prefix string) *RedisResultStore {
	return &RedisResultStore{client: client, keys: newRedisKeys(prefix)}
}

func (s *RedisResultStore) Get(ctx context.Context) (r model.ActualResult, ok bool, err error) {
	defer func(start time.Time) { observe(BackendRedis, "result_get", start, err) }(time.Now())

	raw, err := s.client.Get(ctx, s.keys.result).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.ActualResult{}, false, nil
	}
	if err != nil {
		return model.ActualResult{}, false, fmt.Errorf("get result: %w", err)
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.ActualResult{}, false, fmt.Errorf("%w: result: %w", ErrCorrupt, err)
	}
	return r, true, nil
}

func (s *RedisResultStore) Set(ctx context.Context, r model.ActualResult) (err error) {
	defer func(start time.Time) { observe(BackendRedis, "result_set", start, err) }(time.Now())

	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := s.client.Set(ctx, s.keys.result, raw, 0).Err(); err != nil {
		return fmt.Errorf("set result: %w", err)
	}
	return nil
}

func (s *RedisResultStore) Has(ctx context.Context) (bool, error) {
	n, err := s.client.Exists(ctx, s.keys.result).Result()
	if err != nil {
		return false, fmt.Errorf("check result: %w", err)
	}
	return n == 1, nil
}

func (s *RedisResultStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.keys.result).Err(); err != nil {
		return fmt.Errorf("clear result: %w", err)
	}
	return nil
}
