package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/helpful/internal/cache"
	"github.com/pscheid92/helpful/internal/content"
	"github.com/pscheid92/helpful/internal/domain"
	"github.com/pscheid92/helpful/internal/stats"
)

// Service is the application layer. It is stateless per call; the only
// shared state lives behind the cache gateway.
type Service struct {
	votes    domain.VoteRepository
	items    domain.ContentStore
	enricher *content.Enricher
	cache    *cache.Gateway
	options  domain.OptionSource
	engine   *stats.Engine
	clock    clockwork.Clock
}

// NewService creates the application layer service.
func NewService(votes domain.VoteRepository, items domain.ContentStore, gw *cache.Gateway, options domain.OptionSource, engine *stats.Engine, clock clockwork.Clock) *Service {
	return &Service{
		votes:    votes,
		items:    items,
		enricher: content.NewEnricher(items, clock),
		cache:    gw,
		options:  options,
		engine:   engine,
		clock:    clock,
	}
}

func proKey(itemID int64) string    { return fmt.Sprintf("helpful_pro_%d", itemID) }
func contraKey(itemID int64) string { return fmt.Sprintf("helpful_contra_%d", itemID) }

const (
	proAllKey    = "helpful_pro_all"
	contraAllKey = "helpful_contra_all"
	yearsKey     = "helpful_years"
)

// count reads one cached count and degrades to zero on failure.
func (s *Service) count(ctx context.Context, key string, query func(context.Context) (int64, error)) int64 {
	n, err := cache.ReadThrough(ctx, s.cache, key, query)
	if err != nil {
		slog.ErrorContext(ctx, "Vote count failed", "key", key, "error", err)
		return 0
	}
	return n
}

// Pro returns the number of pro votes of an item.
func (s *Service) Pro(ctx context.Context, itemID int64) int64 {
	return s.count(ctx, proKey(itemID), func(ctx context.Context) (int64, error) {
		return s.votes.CountPro(ctx, itemID)
	})
}

// Contra returns the number of contra votes of an item.
func (s *Service) Contra(ctx context.Context, itemID int64) int64 {
	return s.count(ctx, contraKey(itemID), func(ctx context.Context) (int64, error) {
		return s.votes.CountContra(ctx, itemID)
	})
}

// ProPercentage is the pro share of an item's votes, zero without votes.
func (s *Service) ProPercentage(ctx context.Context, itemID int64) stats.Percentage {
	return stats.ShareOf(stats.SidePro, s.Pro(ctx, itemID), s.Contra(ctx, itemID))
}

// ContraPercentage is the contra share of an item's votes.
func (s *Service) ContraPercentage(ctx context.Context, itemID int64) stats.Percentage {
	return stats.ShareOf(stats.SideContra, s.Pro(ctx, itemID), s.Contra(ctx, itemID))
}

// ProAll returns the number of pro votes across all items.
func (s *Service) ProAll(ctx context.Context) int64 {
	return s.count(ctx, proAllKey, s.votes.CountProAll)
}

// ContraAll returns the number of contra votes across all items.
func (s *Service) ContraAll(ctx context.Context) int64 {
	return s.count(ctx, contraAllKey, s.votes.CountContraAll)
}

func (s *Service) ProAllPercentage(ctx context.Context) stats.Percentage {
	return stats.ShareOf(stats.SidePro, s.ProAll(ctx), s.ContraAll(ctx))
}

func (s *Service) ContraAllPercentage(ctx context.Context) stats.Percentage {
	return stats.ShareOf(stats.SideContra, s.ProAll(ctx), s.ContraAll(ctx))
}

// ListYears returns the distinct years present in the vote log, newest
// first as they are first encountered.
func (s *Service) ListYears(ctx context.Context) []int {
	years, err := cache.ReadThrough(ctx, s.cache, yearsKey, func(ctx context.Context) ([]int, error) {
		times, err := s.votes.EventTimes(ctx)
		if err != nil {
			return nil, err
		}
		var years []int
		seen := make(map[int]struct{})
		for _, t := range times {
			y := s.engine.In(t).Year()
			if _, ok := seen[y]; ok {
				continue
			}
			seen[y] = struct{}{}
			years = append(years, y)
		}
		return years, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "Listing vote years failed", "error", err)
		return []int{}
	}
	if years == nil {
		return []int{}
	}
	return years
}

// InvalidateItem drops the cached counts of an item.
func (s *Service) InvalidateItem(ctx context.Context, itemID int64) error {
	if err := s.cache.Invalidate(ctx, proKey(itemID), contraKey(itemID)); err != nil {
		return fmt.Errorf("failed to invalidate item %d: %w", itemID, err)
	}
	slog.InfoContext(ctx, "Item cache invalidated", "item_id", itemID)
	return nil
}
