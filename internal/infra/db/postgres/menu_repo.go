package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-gatekeeper/internal/domain/model"
)

// PostgresMenuRepository reads the operator-managed menu definitions.
type PostgresMenuRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresMenuRepo(pool *pgxpool.Pool) *PostgresMenuRepository {
	return &PostgresMenuRepository{pool: pool}
}

func (r *PostgresMenuRepository) ListActive(ctx context.Context, botID string) ([]*model.MenuEntry, error) {
	const sql = `
SELECT id, bot_id, label, kind, target, position, active
  FROM menu_entries
 WHERE bot_id = $1
   AND active
 ORDER BY position;
`
	return r.queryEntries(ctx, sql, botID)
}

func (r *PostgresMenuRepository) FindActiveByIDs(ctx context.Context, botID string, ids []string) ([]*model.MenuEntry, error) {
	const sql = `
SELECT id, bot_id, label, kind, target, position, active
  FROM menu_entries
 WHERE bot_id = $1
   AND id = ANY($2::uuid[])
   AND active
 ORDER BY position;
`
	return r.queryEntries(ctx, sql, botID, ids)
}

func (r *PostgresMenuRepository) queryEntries(ctx context.Context, sql string, args ...interface{}) ([]*model.MenuEntry, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing menu entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*model.MenuEntry, error) {
	var out []*model.MenuEntry
	for rows.Next() {
		var (
			e    model.MenuEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.BotID, &e.Label, &kind, &e.Target, &e.Position, &e.Active); err != nil {
			return nil, fmt.Errorf("postgres: scanning menu entry: %w", err)
		}
		e.Kind = model.MenuKind(kind)
		out = append(out, &e)
	}
	return out, rows.Err()
}
