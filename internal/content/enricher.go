// Package content joins ranked and recent vote rows with the display
// metadata of their items.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/helpful/internal/domain"
	"github.com/pscheid92/helpful/internal/stats"
)

// RankedEntry is a ranking row with item metadata attached.
type RankedEntry struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	URL         string           `json:"url"`
	Pro         int64            `json:"pro"`
	Contra      int64            `json:"contra"`
	Score       int64            `json:"score"`
	Percentage  stats.Percentage `json:"percentage"`
	PublishedAt time.Time        `json:"published_at,omitzero"`
	Time        string           `json:"time"`
}

// Recent is a recently submitted vote before enrichment.
type Recent struct {
	ItemID     int64
	VotedAt    time.Time
	Percentage stats.Percentage
}

// RecentEntry is a recent vote with item metadata attached.
type RecentEntry struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	URL        string           `json:"url"`
	Percentage stats.Percentage `json:"percentage"`
	VotedAt    time.Time        `json:"voted_at"`
	Time       string           `json:"time"`
}

// Enricher looks up item metadata. Items whose metadata cannot be loaded are
// kept with an empty name, url and age rather than dropped.
type Enricher struct {
	store domain.ContentStore
	clock clockwork.Clock
}

func NewEnricher(store domain.ContentStore, clock clockwork.Clock) *Enricher {
	return &Enricher{store: store, clock: clock}
}

func (e *Enricher) Ranked(ctx context.Context, items []stats.RankedItem) []RankedEntry {
	now := e.clock.Now()
	out := make([]RankedEntry, 0, len(items))
	for _, it := range items {
		entry := RankedEntry{
			ID:         it.ItemID,
			Pro:        it.Pro,
			Contra:     it.Contra,
			Score:      it.Score,
			Percentage: it.Percentage,
		}
		if meta, ok := e.meta(ctx, it.ItemID); ok {
			entry.Name = meta.Title
			entry.URL = meta.Permalink
			entry.PublishedAt = meta.PublishedAt
			entry.Time = age("Published", meta.PublishedAt, now)
		}
		out = append(out, entry)
	}
	return out
}

func (e *Enricher) Recent(ctx context.Context, items []Recent) []RecentEntry {
	now := e.clock.Now()
	out := make([]RecentEntry, 0, len(items))
	for _, it := range items {
		entry := RecentEntry{
			ID:         it.ItemID,
			Percentage: it.Percentage,
			VotedAt:    it.VotedAt,
			Time:       age("Submitted", it.VotedAt, now),
		}
		if meta, ok := e.meta(ctx, it.ItemID); ok {
			entry.Name = meta.Title
			entry.URL = meta.Permalink
		}
		out = append(out, entry)
	}
	return out
}

func (e *Enricher) meta(ctx context.Context, itemID int64) (domain.ItemMeta, bool) {
	meta, err := e.store.Meta(ctx, itemID)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		slog.DebugContext(ctx, "Item metadata missing, keeping placeholder", "item_id", itemID)
		return domain.ItemMeta{}, false
	case err != nil:
		slog.WarnContext(ctx, "Failed to load item metadata", "item_id", itemID, "error", err)
		return domain.ItemMeta{}, false
	}
	return meta, true
}

// age renders "Published 3 days ago". A zero timestamp renders as "".
func age(verb string, then, now time.Time) string {
	if then.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %s", verb, humanize.RelTime(then, now, "ago", "from now"))
}
