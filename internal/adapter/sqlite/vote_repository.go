package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pscheid92/helpful/internal/domain"
)

var _ domain.VoteRepository = (*VoteRepo)(nil)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDataUnavailable, op, err)
}

func (r *VoteRepo) count(ctx context.Context, op, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, unavailable(op, err)
	}
	return n, nil
}

func (r *VoteRepo) CountPro(ctx context.Context, itemID int64) (int64, error) {
	return r.count(ctx, "count pro", "SELECT COUNT(*) FROM votes WHERE pro = 1 AND item_id = ?", itemID)
}

func (r *VoteRepo) CountContra(ctx context.Context, itemID int64) (int64, error) {
	return r.count(ctx, "count contra", "SELECT COUNT(*) FROM votes WHERE contra = 1 AND item_id = ?", itemID)
}

func (r *VoteRepo) CountProAll(ctx context.Context) (int64, error) {
	return r.count(ctx, "count pro all", "SELECT COUNT(*) FROM votes WHERE pro = 1")
}

func (r *VoteRepo) CountContraAll(ctx context.Context) (int64, error) {
	return r.count(ctx, "count contra all", "SELECT COUNT(*) FROM votes WHERE contra = 1")
}

func (r *VoteRepo) events(ctx context.Context, op, query string, args ...any) ([]domain.VoteEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer rows.Close()

	var events []domain.VoteEvent
	for rows.Next() {
		var ev domain.VoteEvent
		var at int64
		if err := rows.Scan(&ev.ItemID, &ev.Pro, &ev.Contra, &at); err != nil {
			return nil, unavailable(op, err)
		}
		ev.OccurredAt = time.Unix(at, 0).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return events, nil
}

func (r *VoteRepo) EventsBetween(ctx context.Context, from, to time.Time) ([]domain.VoteEvent, error) {
	return r.events(ctx, "events between", `
		SELECT item_id, pro, contra, created_at FROM votes
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at, id`, from.Unix(), to.Unix())
}

func (r *VoteRepo) AllEvents(ctx context.Context) ([]domain.VoteEvent, error) {
	return r.events(ctx, "all events", "SELECT item_id, pro, contra, created_at FROM votes ORDER BY created_at, id")
}

func (r *VoteRepo) EventTimes(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT created_at FROM votes ORDER BY created_at DESC")
	if err != nil {
		return nil, unavailable("event times", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var at int64
		if err := rows.Scan(&at); err != nil {
			return nil, unavailable("event times", err)
		}
		times = append(times, time.Unix(at, 0).UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("event times", err)
	}
	return times, nil
}

func (r *VoteRepo) RecentVotes(ctx context.Context, kind domain.VoteKind, limit int) ([]domain.RecentVote, error) {
	var query string
	switch kind {
	case domain.VotePro:
		query = "SELECT item_id, created_at FROM votes WHERE pro = 1 ORDER BY id DESC LIMIT ?"
	case domain.VoteContra:
		query = "SELECT item_id, created_at FROM votes WHERE contra = 1 ORDER BY id DESC LIMIT ?"
	default:
		return nil, fmt.Errorf("unknown vote kind %q", kind)
	}

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, unavailable("recent votes", err)
	}
	defer rows.Close()

	var votes []domain.RecentVote
	for rows.Next() {
		var v domain.RecentVote
		var at int64
		if err := rows.Scan(&v.ItemID, &at); err != nil {
			return nil, unavailable("recent votes", err)
		}
		v.VotedAt = time.Unix(at, 0).UTC()
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("recent votes", err)
	}
	return votes, nil
}
