// Package memcache implements the transient store on memcached.
package memcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/helpful/internal/domain"
)

// memcached reads expirations above 30 days as absolute unix timestamps.
const maxRelativeExpiration = 30 * 24 * time.Hour

// Client is the subset of *memcache.Client the store uses.
type Client interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
}

var _ domain.TransientStore = (*TransientStore)(nil)

type TransientStore struct {
	client Client
	clock  clockwork.Clock
}

func NewTransientStore(client Client, clock clockwork.Clock) *TransientStore {
	return &TransientStore{client: client, clock: clock}
}

// Dial connects to the given servers and verifies they respond.
func Dial(servers ...string) (*memcache.Client, error) {
	if len(servers) == 0 {
		return nil, errors.New("no memcache servers configured")
	}
	client := memcache.New(servers...)
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping memcache: %w", err)
	}
	return client, nil
}

func (s *TransientStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, err := s.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get transient %s: %w", key, err)
	}
	return item.Value, true, nil
}

func (s *TransientStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := &memcache.Item{Key: key, Value: value, Expiration: s.expiration(ttl)}
	if err := s.client.Set(item); err != nil {
		return fmt.Errorf("failed to set transient %s: %w", key, err)
	}
	return nil
}

func (s *TransientStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.client.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return fmt.Errorf("failed to delete transient %s: %w", key, err)
		}
	}
	return nil
}

// expiration converts ttl to memcached's format: 0 for no expiry, seconds
// up to 30 days, an absolute unix time beyond that.
func (s *TransientStore) expiration(ttl time.Duration) int32 {
	switch {
	case ttl <= 0:
		return 0
	case ttl <= maxRelativeExpiration:
		return int32((ttl + time.Second - 1) / time.Second)
	default:
		return int32(s.clock.Now().Add(ttl).Unix())
	}
}

// HealthCheck pings every server.
func HealthCheck(client *memcache.Client) func(context.Context) error {
	return func(context.Context) error {
		if err := client.Ping(); err != nil {
			return fmt.Errorf("memcache ping failed: %w", err)
		}
		return nil
	}
}
