package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pscheid92/helpful/internal/domain"
)

var _ domain.OptionRepository = (*OptionRepo)(nil)

type OptionRepo struct {
	db *sql.DB
}

func NewOptionRepo(db *sql.DB) *OptionRepo {
	return &OptionRepo{db: db}
}

func (r *OptionRepo) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM options WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get option %s: %w", name, err)
	}
	return value, true, nil
}
