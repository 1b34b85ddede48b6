package tokenstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the record in a single redis hash.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	owned  bool
}

// NewRedisStore wraps an existing client. The caller keeps ownership of it.
func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Save replaces the hash in one MULTI block and lets it expire with the token.
func (r *RedisStore) Save(ctx context.Context, rec Record) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key,
			KeyToken, rec.Token,
			KeyRole, rec.Role,
			KeyExpiry, strconv.FormatInt(rec.ExpiryMillis(), 10),
		)
		if !rec.ExpiresAt.IsZero() {
			pipe.PExpireAt(ctx, r.key, rec.ExpiresAt)
		}
		return nil
	})
	return err
}

// Read returns ErrNotFound unless token, role and a positive expiry are all set.
func (r *RedisStore) Read(ctx context.Context) (Record, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Record{}, err
	}

	token, role, raw := fields[KeyToken], fields[KeyRole], fields[KeyExpiry]
	if token == "" || role == "" || raw == "" {
		return Record{}, ErrNotFound
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Record{}, errors.Join(ErrCorrupted, err)
	}
	if ms <= 0 {
		return Record{}, ErrNotFound
	}

	return Record{Token: token, Role: role, ExpiresAt: time.UnixMilli(ms)}, nil
}

// Clear deletes the hash.
func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

// Close releases the client when the store created it through Open.
func (r *RedisStore) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}

// connectRedis parses url and pings until redis answers, the attempts run out,
// or ctx is done.
func connectRedis(ctx context.Context, url string, attempts int, interval, timeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := redis.NewClient(opts)
	var lastErr error
	for attempt := 0; attempt < max(attempts, 1); attempt++ {
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(interval):
		}
	}

	_ = client.Close()
	return nil, errors.Join(ErrRedisNotReady, lastErr)
}
