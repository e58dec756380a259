package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhyasa/study-client/storage"
	"github.com/redis/go-redis/v9"
)

var _ storage.Store = (*RedisStore)(nil)

// RedisStore keeps a profile's session keys in Redis so several terminals can
// share one login. Keys never expire on the Redis side; inactivity is enforced
// by the session gate.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	Profile  string
}

// New opens a client for opts. The connection is checked lazily through Ping.
func New(opts Options) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewWithClient(client, opts.Profile)
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client, profile string) *RedisStore {
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{
		client: client,
		prefix: "abhyasa:" + profile + ":",
	}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[RedisStore Get] %w", err)
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("[RedisStore Set] %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("[RedisStore Delete] %w", err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("[RedisStore Ping] %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (r *RedisStore) Close() error {
	return r.client.Close()
}
