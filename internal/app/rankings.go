package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pscheid92/helpful/internal/cache"
	"github.com/pscheid92/helpful/internal/content"
	"github.com/pscheid92/helpful/internal/domain"
	"github.com/pscheid92/helpful/internal/stats"
)

// MostHelpful ranks items by pro minus contra. A non-positive limit uses
// helpful_widget_amount.
func (s *Service) MostHelpful(ctx context.Context, limit int) []content.RankedEntry {
	limit = widgetAmount(ctx, s.options, limit)
	return s.enricher.Ranked(ctx, stats.MostHelpful(s.candidates(ctx), limit))
}

// LeastHelpful ranks items by contra minus pro.
func (s *Service) LeastHelpful(ctx context.Context, limit int) []content.RankedEntry {
	limit = widgetAmount(ctx, s.options, limit)
	return s.enricher.Ranked(ctx, stats.LeastHelpful(s.candidates(ctx), limit))
}

// RecentlyPro lists the newest pro votes with the signed net share of
// their items.
func (s *Service) RecentlyPro(ctx context.Context, limit int) []content.RecentEntry {
	return s.recent(ctx, domain.VotePro, stats.SidePro, limit)
}

// RecentlyContra lists the newest contra votes.
func (s *Service) RecentlyContra(ctx context.Context, limit int) []content.RecentEntry {
	return s.recent(ctx, domain.VoteContra, stats.SideContra, limit)
}

// candidates loads the configured items with their vote counts, keeping the
// content store's order.
func (s *Service) candidates(ctx context.Context) []stats.Candidate {
	types := postTypes(ctx, s.options)
	key := "helpful_items_" + strings.Join(types, "_")

	ids, err := cache.ReadThrough(ctx, s.cache, key, func(ctx context.Context) ([]int64, error) {
		return s.items.ListItemIDs(ctx, types)
	})
	if err != nil {
		slog.ErrorContext(ctx, "Listing items failed", "post_types", types, "error", err)
		return nil
	}

	candidates := make([]stats.Candidate, 0, len(ids))
	for _, id := range ids {
		candidates = append(candidates, stats.Candidate{
			ItemID: id,
			Pro:    s.Pro(ctx, id),
			Contra: s.Contra(ctx, id),
		})
	}
	return candidates
}

func (s *Service) recent(ctx context.Context, kind domain.VoteKind, side stats.Side, limit int) []content.RecentEntry {
	limit = widgetAmount(ctx, s.options, limit)
	key := fmt.Sprintf("helpful_recently_%s_%d", kind, limit)

	votes, err := cache.ReadThrough(ctx, s.cache, key, func(ctx context.Context) ([]domain.RecentVote, error) {
		return s.votes.RecentVotes(ctx, kind, limit)
	})
	if err != nil {
		slog.ErrorContext(ctx, "Recent votes query failed", "kind", string(kind), "error", err)
		return []content.RecentEntry{}
	}

	recent := make([]content.Recent, 0, len(votes))
	for _, v := range votes {
		recent = append(recent, content.Recent{
			ItemID:     v.ItemID,
			VotedAt:    v.VotedAt,
			Percentage: stats.Recency(side, s.Pro(ctx, v.ItemID), s.Contra(ctx, v.ItemID)),
		})
	}
	return s.enricher.Recent(ctx, recent)
}
