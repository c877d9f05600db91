package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pscheid92/helpful/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

var _ domain.TransientStore = (*TransientStore)(nil)

// TransientStore keeps statistics cache entries as plain redis strings.
type TransientStore struct {
	rdb goredis.Cmdable
}

func NewTransientStore(rdb goredis.Cmdable) *TransientStore {
	return &TransientStore{rdb: rdb}
}

func (s *TransientStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get transient %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value. A zero ttl keeps the key until it is deleted.
func (s *TransientStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set transient %s: %w", key, err)
	}
	return nil
}

func (s *TransientStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete transients: %w", err)
	}
	return nil
}
