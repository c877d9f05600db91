package domain

import (
	"context"
	"time"
)

// VoteEvent is one row of the feedback log. Pro and Contra are counts rather
// than flags so pre-aggregated rows fold the same way as raw ones; a raw row
// carries 0 or 1 in each and both may be set.
type VoteEvent struct {
	ItemID     int64     `json:"item_id"`
	Pro        int64     `json:"pro"`
	Contra     int64     `json:"contra"`
	OccurredAt time.Time `json:"occurred_at"`
}

// VoteKind selects the pro or contra side of the log.
type VoteKind string

const (
	VotePro    VoteKind = "pro"
	VoteContra VoteKind = "contra"
)

// RecentVote is a single submitted vote returned by the recency queries.
type RecentVote struct {
	ItemID  int64     `json:"item_id"`
	VotedAt time.Time `json:"voted_at"`
}

// VoteRepository is the read-only query surface over the feedback log.
// All failures are wrapped in ErrDataUnavailable.
type VoteRepository interface {
	CountPro(ctx context.Context, itemID int64) (int64, error)
	CountContra(ctx context.Context, itemID int64) (int64, error)
	CountProAll(ctx context.Context) (int64, error)
	CountContraAll(ctx context.Context) (int64, error)

	// EventsBetween returns rows with from <= occurred_at < to, oldest first.
	EventsBetween(ctx context.Context, from, to time.Time) ([]VoteEvent, error)
	AllEvents(ctx context.Context) ([]VoteEvent, error)

	// EventTimes returns every vote timestamp, newest first.
	EventTimes(ctx context.Context) ([]time.Time, error)

	// RecentVotes returns the newest votes of the given kind by insertion order.
	RecentVotes(ctx context.Context, kind VoteKind, limit int) ([]RecentVote, error)
}
