package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/helpful/internal/domain"
)

const getOptionSQL = `-- name: GetOption
SELECT value FROM options WHERE name = $1`

var _ domain.OptionRepository = (*OptionRepo)(nil)

type OptionRepo struct {
	pool *pgxpool.Pool
}

func NewOptionRepo(pool *pgxpool.Pool) *OptionRepo {
	return &OptionRepo{pool: pool}
}

func (r *OptionRepo) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := r.pool.QueryRow(ctx, getOptionSQL, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get option %s: %w", name, err)
	}
	return value, true, nil
}
