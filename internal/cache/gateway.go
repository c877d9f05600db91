// Package cache implements the read-through statistics cache: a single
// site-wide on/off switch and TTL policy in front of any TransientStore.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pscheid92/helpful/internal/adapter/metrics"
	"github.com/pscheid92/helpful/internal/domain"
)

// Gateway decides per call whether to bypass, read, or populate the store.
// It holds no locks: concurrent misses on one key all run their producer and
// the last write wins.
type Gateway struct {
	store   domain.TransientStore
	options domain.OptionSource
	metrics *metrics.CacheMetrics
}

// NewGateway creates a gateway. m may be nil.
func NewGateway(store domain.TransientStore, options domain.OptionSource, m *metrics.CacheMetrics) *Gateway {
	return &Gateway{store: store, options: options, metrics: m}
}

// Enabled reports whether helpful_caching is "on".
func (g *Gateway) Enabled(ctx context.Context) bool {
	return g.options.Option(ctx, domain.OptionCaching, "off") == "on"
}

// TTL resolves the configured helpful_cache_time policy.
func (g *Gateway) TTL(ctx context.Context) time.Duration {
	return TTL(g.options.Option(ctx, domain.OptionCacheTime, DefaultPolicy))
}

// Invalidate removes keys from the store regardless of the on/off switch.
func (g *Gateway) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := g.store.Delete(ctx, keys...); err != nil {
		return err
	}
	if g.metrics != nil {
		g.metrics.Invalidations.Add(float64(len(keys)))
	}
	return nil
}

// ReadThrough returns the cached JSON value under key, or runs produce and
// caches its result. With caching off, produce always runs and nothing is
// read or written. Store failures and undecodable entries count as misses.
// A producer error is returned as is and never cached.
func ReadThrough[T any](ctx context.Context, g *Gateway, key string, produce func(context.Context) (T, error)) (T, error) {
	if !g.Enabled(ctx) {
		g.metrics.Lookup(metrics.ResultBypass)
		return produce(ctx)
	}

	raw, ok, err := g.store.Get(ctx, key)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "Transient read failed, recomputing", "key", key, "error", err)
		g.metrics.Lookup(metrics.ResultStoreError)
	case ok:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			g.metrics.Lookup(metrics.ResultHit)
			return cached, nil
		}
		slog.DebugContext(ctx, "Discarding undecodable transient", "key", key)
		g.metrics.Lookup(metrics.ResultDecodeError)
	default:
		g.metrics.Lookup(metrics.ResultMiss)
	}

	value, err := produce(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "Failed to encode transient", "key", key, "error", err)
		return value, nil
	}
	if err := g.store.Set(ctx, key, encoded, g.TTL(ctx)); err != nil {
		slog.WarnContext(ctx, "Transient write failed", "key", key, "error", err)
		if g.metrics != nil {
			g.metrics.WriteErrors.Inc()
		}
	}
	return value, nil
}
