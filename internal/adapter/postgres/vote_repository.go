package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/helpful/internal/domain"
)

const (
	countProSQL = `-- name: CountPro
SELECT COUNT(*) FROM votes WHERE pro = 1 AND item_id = $1`

	countContraSQL = `-- name: CountContra
SELECT COUNT(*) FROM votes WHERE contra = 1 AND item_id = $1`

	countProAllSQL = `-- name: CountProAll
SELECT COUNT(*) FROM votes WHERE pro = 1`

	countContraAllSQL = `-- name: CountContraAll
SELECT COUNT(*) FROM votes WHERE contra = 1`

	eventsBetweenSQL = `-- name: EventsBetween
SELECT item_id, pro, contra, created_at FROM votes
WHERE created_at >= $1 AND created_at < $2
ORDER BY created_at, id`

	allEventsSQL = `-- name: AllEvents
SELECT item_id, pro, contra, created_at FROM votes
ORDER BY created_at, id`

	eventTimesSQL = `-- name: EventTimes
SELECT created_at FROM votes ORDER BY created_at DESC`

	recentProSQL = `-- name: RecentPro
SELECT item_id, created_at FROM votes WHERE pro = 1 ORDER BY id DESC LIMIT $1`

	recentContraSQL = `-- name: RecentContra
SELECT item_id, created_at FROM votes WHERE contra = 1 ORDER BY id DESC LIMIT $1`
)

var _ domain.VoteRepository = (*VoteRepo)(nil)

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDataUnavailable, op, err)
}

func (r *VoteRepo) count(ctx context.Context, op, sql string, args ...any) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, unavailable(op, err)
	}
	return n, nil
}

func (r *VoteRepo) CountPro(ctx context.Context, itemID int64) (int64, error) {
	return r.count(ctx, "count pro", countProSQL, itemID)
}

func (r *VoteRepo) CountContra(ctx context.Context, itemID int64) (int64, error) {
	return r.count(ctx, "count contra", countContraSQL, itemID)
}

func (r *VoteRepo) CountProAll(ctx context.Context) (int64, error) {
	return r.count(ctx, "count pro all", countProAllSQL)
}

func (r *VoteRepo) CountContraAll(ctx context.Context) (int64, error) {
	return r.count(ctx, "count contra all", countContraAllSQL)
}

func scanEvent(row pgx.CollectableRow) (domain.VoteEvent, error) {
	var ev domain.VoteEvent
	err := row.Scan(&ev.ItemID, &ev.Pro, &ev.Contra, &ev.OccurredAt)
	return ev, err
}

func (r *VoteRepo) EventsBetween(ctx context.Context, from, to time.Time) ([]domain.VoteEvent, error) {
	rows, err := r.pool.Query(ctx, eventsBetweenSQL, from, to)
	if err != nil {
		return nil, unavailable("events between", err)
	}
	events, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, unavailable("events between", err)
	}
	return events, nil
}

func (r *VoteRepo) AllEvents(ctx context.Context) ([]domain.VoteEvent, error) {
	rows, err := r.pool.Query(ctx, allEventsSQL)
	if err != nil {
		return nil, unavailable("all events", err)
	}
	events, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, unavailable("all events", err)
	}
	return events, nil
}

func (r *VoteRepo) EventTimes(ctx context.Context) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, eventTimesSQL)
	if err != nil {
		return nil, unavailable("event times", err)
	}
	times, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, unavailable("event times", err)
	}
	return times, nil
}

func (r *VoteRepo) RecentVotes(ctx context.Context, kind domain.VoteKind, limit int) ([]domain.RecentVote, error) {
	var sql string
	switch kind {
	case domain.VotePro:
		sql = recentProSQL
	case domain.VoteContra:
		sql = recentContraSQL
	default:
		return nil, fmt.Errorf("unknown vote kind %q", kind)
	}

	rows, err := r.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, unavailable("recent votes", err)
	}
	votes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RecentVote, error) {
		var v domain.RecentVote
		err := row.Scan(&v.ItemID, &v.VotedAt)
		return v, err
	})
	if err != nil {
		return nil, unavailable("recent votes", err)
	}
	return votes, nil
}
