package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/helpful/internal/domain"
)

const (
	listItemIDsSQL = `-- name: ListItemIDs
SELECT id FROM items WHERE post_type = ANY($1) ORDER BY published_at DESC, id DESC`

	itemMetaSQL = `-- name: ItemMeta
SELECT id, title, permalink, published_at FROM items WHERE id = $1`
)

var _ domain.ContentStore = (*ContentRepo)(nil)

type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

// ListItemIDs returns the items of the given post types, newest first.
func (r *ContentRepo) ListItemIDs(ctx context.Context, postTypes []string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, listItemIDsSQL, postTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return ids, nil
}

func (r *ContentRepo) Meta(ctx context.Context, itemID int64) (domain.ItemMeta, error) {
	var m domain.ItemMeta
	err := r.pool.QueryRow(ctx, itemMetaSQL, itemID).Scan(&m.ID, &m.Title, &m.Permalink, &m.PublishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ItemMeta{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.ItemMeta{}, fmt.Errorf("failed to get item meta: %w", err)
	}
	return m, nil
}
