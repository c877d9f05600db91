package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/helpful/internal/cache"
	"github.com/pscheid92/helpful/internal/domain"
	"github.com/pscheid92/helpful/internal/stats"
)

// --- Mock implementations ---

type mockVoteRepo struct {
	countProFn       func(ctx context.Context, itemID int64) (int64, error)
	countContraFn    func(ctx context.Context, itemID int64) (int64, error)
	countProAllFn    func(ctx context.Context) (int64, error)
	countContraAllFn func(ctx context.Context) (int64, error)
	eventsBetweenFn  func(ctx context.Context, from, to time.Time) ([]domain.VoteEvent, error)
	allEventsFn      func(ctx context.Context) ([]domain.VoteEvent, error)
	eventTimesFn     func(ctx context.Context) ([]time.Time, error)
	recentVotesFn    func(ctx context.Context, kind domain.VoteKind, limit int) ([]domain.RecentVote, error)
}

func (m *mockVoteRepo) CountPro(ctx context.Context, itemID int64) (int64, error) {
	if m.countProFn != nil {
		return m.countProFn(ctx, itemID)
	}
	return 0, nil
}

func (m *mockVoteRepo) CountContra(ctx context.Context, itemID int64) (int64, error) {
	if m.countContraFn != nil {
		return m.countContraFn(ctx, itemID)
	}
	return 0, nil
}

func (m *mockVoteRepo) CountProAll(ctx context.Context) (int64, error) {
	if m.countProAllFn != nil {
		return m.countProAllFn(ctx)
	}
	return 0, nil
}

func (m *mockVoteRepo) CountContraAll(ctx context.Context) (int64, error) {
	if m.countContraAllFn != nil {
		return m.countContraAllFn(ctx)
	}
	return 0, nil
}

func (m *mockVoteRepo) EventsBetween(ctx context.Context, from, to time.Time) ([]domain.VoteEvent, error) {
	if m.eventsBetweenFn != nil {
		return m.eventsBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockVoteRepo) AllEvents(ctx context.Context) ([]domain.VoteEvent, error) {
	if m.allEventsFn != nil {
		return m.allEventsFn(ctx)
	}
	return nil, nil
}

func (m *mockVoteRepo) EventTimes(ctx context.Context) ([]time.Time, error) {
	if m.eventTimesFn != nil {
		return m.eventTimesFn(ctx)
	}
	return nil, nil
}

func (m *mockVoteRepo) RecentVotes(ctx context.Context, kind domain.VoteKind, limit int) ([]domain.RecentVote, error) {
	if m.recentVotesFn != nil {
		return m.recentVotesFn(ctx, kind, limit)
	}
	return nil, nil
}

type mockContentStore struct {
	listItemIDsFn func(ctx context.Context, postTypes []string) ([]int64, error)
	metaFn        func(ctx context.Context, itemID int64) (domain.ItemMeta, error)
}

func (m *mockContentStore) ListItemIDs(ctx context.Context, postTypes []string) ([]int64, error) {
	if m.listItemIDsFn != nil {
		return m.listItemIDsFn(ctx, postTypes)
	}
	return nil, nil
}

func (m *mockContentStore) Meta(ctx context.Context, itemID int64) (domain.ItemMeta, error) {
	if m.metaFn != nil {
		return m.metaFn(ctx, itemID)
	}
	return domain.ItemMeta{ID: itemID, Title: fmt.Sprintf("Item %d", itemID)}, nil
}

type mockOptionRepo struct {
	getFn func(ctx context.Context, name string) (string, bool, error)
}

func (m *mockOptionRepo) Get(ctx context.Context, name string) (string, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return "", false, nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store down")
}

func (failingStore) Delete(context.Context, ...string) error {
	return errors.New("store down")
}

// --- Helpers ---

// testNow is Wednesday 2024-03-13 10:30 UTC.
var testNow = time.Date(2024, time.March, 13, 10, 30, 0, 0, time.UTC)

type testDeps struct {
	votes   *mockVoteRepo
	items   *mockContentStore
	clock   *clockwork.FakeClock
	store   *cache.MemoryStore
	options map[string]string
}

func newTestService(t *testing.T, deps *testDeps) *Service {
	t.Helper()
	if deps.votes == nil {
		deps.votes = &mockVoteRepo{}
	}
	if deps.items == nil {
		deps.items = &mockContentStore{}
	}
	if deps.clock == nil {
		deps.clock = clockwork.NewFakeClockAt(testNow)
	}
	if deps.store == nil {
		deps.store = cache.NewMemoryStore(deps.clock)
	}
	options := NewOptions(nil, deps.options)
	gw := cache.NewGateway(deps.store, options, nil)
	return NewService(deps.votes, deps.items, gw, options, stats.NewEngine(time.UTC, false), deps.clock)
}

func cachingOn() map[string]string {
	return map[string]string{domain.OptionCaching: "on", domain.OptionCacheTime: "hour"}
}

func countsByItem(pro, contra map[int64]int64) *mockVoteRepo {
	return &mockVoteRepo{
		countProFn:    func(_ context.Context, id int64) (int64, error) { return pro[id], nil },
		countContraFn: func(_ context.Context, id int64) (int64, error) { return contra[id], nil },
	}
}
