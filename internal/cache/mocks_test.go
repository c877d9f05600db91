package cache

import (
	"context"
	"time"
)

type mockStore struct {
	getFn    func(ctx context.Context, key string) ([]byte, bool, error)
	setFn    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	deleteFn func(ctx context.Context, keys ...string) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, false, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, keys ...string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, keys...)
	}
	return nil
}

type staticOptions map[string]string

func (o staticOptions) Option(_ context.Context, name, def string) string {
	if v, ok := o[name]; ok {
		return v
	}
	return def
}
