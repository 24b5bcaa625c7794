package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached values between API replicas. Values are JSON
// encoded under prefix+key and expire after ttl.
type RedisStore[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Store[int] = (*RedisStore[int])(nil)

var errStaleGeneration = errors.New("cache generation changed")

// NewRedisClient connects to a single Redis node.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func NewRedisStore[T any](client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore[T] {
	return &RedisStore[T]{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "Redis cache read failed", "key", key, "error", err)
		}
		return zero, false
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.WarnContext(ctx, "Dropping undecodable cache entry", "key", key, "error", err)
		r.Delete(ctx, key)
		return zero, false
	}
	return data, true
}

func (r *RedisStore[T]) Set(ctx context.Context, key string, data T) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.WarnContext(ctx, "Cache value not encodable", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis cache write failed", "key", key, "error", err)
	}
}

// Delete removes the value and increments the generation key in one
// transaction.
func (r *RedisStore[T]) Delete(ctx context.Context, key string) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.prefix+key)
		pipe.Incr(ctx, r.generationKey(key))
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "Redis cache delete failed", "key", key, "error", err)
	}
}

func (r *RedisStore[T]) Generation(ctx context.Context, key string) int64 {
	gen, err := r.client.Get(ctx, r.generationKey(key)).Int64()
	switch {
	case err == nil:
		return gen
	case errors.Is(err, redis.Nil):
		return 0
	default:
		slog.WarnContext(ctx, "Redis generation read failed", "key", key, "error", err)
		return unknownGeneration
	}
}

// SetIfGeneration watches the generation key so a Delete from another
// process between the check and the write aborts the transaction.
func (r *RedisStore[T]) SetIfGeneration(ctx context.Context, key string, data T, gen int64) bool {
	if gen == unknownGeneration {
		return false
	}
	raw, err := json.Marshal(data)
	if err != nil {
		slog.WarnContext(ctx, "Cache value not encodable", "key", key, "error", err)
		return false
	}

	genKey := r.generationKey(key)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.prefix+key, raw, r.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return true
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return false
	default:
		slog.WarnContext(ctx, "Redis cache write failed", "key", key, "error", err)
		return false
	}
}

func (r *RedisStore[T]) generationKey(key string) string {
	return r.prefix + "gen:" + key
}
