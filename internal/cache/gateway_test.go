package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/helpful/internal/adapter/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enabled(policy string) staticOptions {
	return staticOptions{"helpful_caching": "on", "helpful_cache_time": policy}
}

func counter(calls *int, value int64) func(context.Context) (int64, error) {
	return func(context.Context) (int64, error) {
		*calls++
		return value, nil
	}
}

func TestReadThrough_DisabledAlwaysProduces(t *testing.T) {
	var writes int
	store := &mockStore{
		getFn: func(context.Context, string) ([]byte, bool, error) {
			t.Fatal("store must not be read while caching is off")
			return nil, false, nil
		},
		setFn: func(context.Context, string, []byte, time.Duration) error {
			writes++
			return nil
		},
	}
	gw := NewGateway(store, staticOptions{"helpful_caching": "off"}, nil)
	ctx := context.Background()

	var calls int
	first, err := ReadThrough(ctx, gw, "helpful_pro_1", counter(&calls, 4))
	require.NoError(t, err)
	second, err := ReadThrough(ctx, gw, "helpful_pro_1", counter(&calls, 4))
	require.NoError(t, err)

	assert.Equal(t, int64(4), first)
	assert.Equal(t, int64(4), second)
	assert.Equal(t, 2, calls)
	assert.Zero(t, writes)
}

func TestReadThrough_UnsetSwitchBypasses(t *testing.T) {
	gw := NewGateway(NewMemoryStore(clockwork.NewFakeClock()), staticOptions{}, nil)

	var calls int
	for range 3 {
		_, err := ReadThrough(context.Background(), gw, "k", counter(&calls, 1))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, calls)
}

func TestReadThrough_MissThenHit(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gw := NewGateway(NewMemoryStore(clock), enabled("minute"), nil)
	ctx := context.Background()

	var calls int
	first, err := ReadThrough(ctx, gw, "helpful_pro_all", counter(&calls, 7))
	require.NoError(t, err)
	second, err := ReadThrough(ctx, gw, "helpful_pro_all", counter(&calls, 99))
	require.NoError(t, err)

	assert.Equal(t, int64(7), first)
	assert.Equal(t, int64(7), second)
	assert.Equal(t, 1, calls)

	clock.Advance(time.Minute)
	third, err := ReadThrough(ctx, gw, "helpful_pro_all", counter(&calls, 99))
	require.NoError(t, err)
	assert.Equal(t, int64(99), third)
	assert.Equal(t, 2, calls)
}

func TestReadThrough_StoresWithPolicyTTL(t *testing.T) {
	tests := []struct {
		policy string
		want   time.Duration
	}{
		{"none", 0},
		{"minute", time.Minute},
		{"hour", time.Hour},
		{"day", 24 * time.Hour},
		{"week", 7 * 24 * time.Hour},
		{"month", 30 * 24 * time.Hour},
		{"year", 365 * 24 * time.Hour},
		{"fortnight", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			var gotTTL time.Duration
			var gotValue []byte
			store := &mockStore{setFn: func(_ context.Context, _ string, value []byte, ttl time.Duration) error {
				gotValue, gotTTL = value, ttl
				return nil
			}}
			gw := NewGateway(store, enabled(tt.policy), nil)

			_, err := ReadThrough(context.Background(), gw, "k", func(context.Context) ([]int64, error) {
				return []int64{1, 2}, nil
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, gotTTL)
			assert.JSONEq(t, `[1,2]`, string(gotValue))
		})
	}
}

func TestReadThrough_DecodeFailureIsMiss(t *testing.T) {
	var stored []byte
	store := &mockStore{
		getFn: func(context.Context, string) ([]byte, bool, error) {
			return []byte("not json"), true, nil
		},
		setFn: func(_ context.Context, _ string, value []byte, _ time.Duration) error {
			stored = value
			return nil
		},
	}
	gw := NewGateway(store, enabled("hour"), nil)

	var calls int
	got, err := ReadThrough(context.Background(), gw, "k", counter(&calls, 5))

	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "5", string(stored))
}

func TestReadThrough_StoreFailuresFailOpen(t *testing.T) {
	store := &mockStore{
		getFn: func(context.Context, string) ([]byte, bool, error) {
			return nil, false, errors.New("connection refused")
		},
		setFn: func(context.Context, string, []byte, time.Duration) error {
			return errors.New("connection refused")
		},
	}
	reg := prometheus.NewRegistry()
	m := metrics.NewCacheMetrics(reg)
	gw := NewGateway(store, enabled("hour"), m)

	var calls int
	got, err := ReadThrough(context.Background(), gw, "k", counter(&calls, 3))

	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues(metrics.ResultStoreError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WriteErrors))
}

func TestReadThrough_ProducerErrorNotCached(t *testing.T) {
	var writes int
	store := &mockStore{setFn: func(context.Context, string, []byte, time.Duration) error {
		writes++
		return nil
	}}
	gw := NewGateway(store, enabled("hour"), nil)
	boom := errors.New("query failed")

	_, err := ReadThrough(context.Background(), gw, "k", func(context.Context) (int64, error) {
		return 0, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, writes)
}

func TestReadThrough_RecordsLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCacheMetrics(reg)
	gw := NewGateway(NewMemoryStore(clockwork.NewFakeClock()), enabled("minute"), m)
	ctx := context.Background()

	var calls int
	for range 3 {
		_, err := ReadThrough(ctx, gw, "k", counter(&calls, 1))
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues(metrics.ResultMiss)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues(metrics.ResultHit)))
}

func TestInvalidate(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)
	gw := NewGateway(store, enabled("hour"), nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "helpful_pro_1", []byte("1"), time.Hour))
	require.NoError(t, store.Set(ctx, "helpful_contra_1", []byte("1"), time.Hour))
	require.NoError(t, store.Set(ctx, "helpful_pro_2", []byte("1"), time.Hour))

	require.NoError(t, gw.Invalidate(ctx, "helpful_pro_1", "helpful_contra_1"))

	assert.Equal(t, 1, store.Size())
	assert.NoError(t, gw.Invalidate(ctx))
}

func TestInvalidate_PropagatesStoreError(t *testing.T) {
	store := &mockStore{deleteFn: func(context.Context, ...string) error { return errors.New("down") }}
	gw := NewGateway(store, enabled("hour"), nil)

	assert.Error(t, gw.Invalidate(context.Background(), "k"))
}
