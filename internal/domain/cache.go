package domain

import (
	"context"
	"time"
)

// TransientStore is a key/value store with per-key expiry. Get reports a
// missing or expired key as ok == false with a nil error.
type TransientStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
