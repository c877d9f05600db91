package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pscheid92/helpful/internal/domain"
)

var _ domain.ContentStore = (*ContentRepo)(nil)

type ContentRepo struct {
	db *sql.DB
}

func NewContentRepo(db *sql.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

// ListItemIDs returns the items of the given post types, newest first.
func (r *ContentRepo) ListItemIDs(ctx context.Context, postTypes []string) ([]int64, error) {
	if len(postTypes) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(postTypes)), ", ")
	args := make([]any, 0, len(postTypes))
	for _, pt := range postTypes {
		args = append(args, pt)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM items WHERE post_type IN ("+placeholders+") ORDER BY published_at DESC, id DESC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ContentRepo) Meta(ctx context.Context, itemID int64) (domain.ItemMeta, error) {
	var m domain.ItemMeta
	var published int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, permalink, published_at FROM items WHERE id = ?", itemID,
	).Scan(&m.ID, &m.Title, &m.Permalink, &published)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ItemMeta{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.ItemMeta{}, fmt.Errorf("failed to get item meta: %w", err)
	}
	m.PublishedAt = time.Unix(published, 0).UTC()
	return m, nil
}
