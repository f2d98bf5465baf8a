package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOption configures the Redis adapter.
type RedisOption func(*Redis)

// WithKeyPrefix namespaces every key, e.g. "authform:".
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// WithTTL expires drafts after ttl. Zero keeps them until cleared.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// Redis stores drafts as string keys in Redis.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, errors.New("drafts: redis client is required")
	}
	r := &Redis{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

func (r *Redis) key(formID string) string {
	return r.prefix + Key(formID)
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context, formID string) (map[string]string, error) {
	id, err := checkFormID(formID)
	if err != nil {
		return nil, err
	}
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("drafts: redis get %s: %w", id, err)
	}
	return decode(raw)
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, formID string, values map[string]string) error {
	id, err := checkFormID(formID)
	if err != nil {
		return err
	}
	compact := Compact(values)
	if compact == nil {
		return r.Clear(ctx, id)
	}
	raw, err := encode(compact)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(id), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("drafts: redis set %s: %w", id, err)
	}
	return nil
}

// Clear implements Store.
func (r *Redis) Clear(ctx context.Context, formID string) error {
	id, err := checkFormID(formID)
	if err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("drafts: redis del %s: %w", id, err)
	}
	return nil
}
