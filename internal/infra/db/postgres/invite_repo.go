package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-gatekeeper/internal/domain"
	"telegram-gatekeeper/internal/domain/model"
)

// PostgresInviteRepository is a Postgres adapter for repository.InviteRepository.
type PostgresInviteRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresInviteRepo(pool *pgxpool.Pool) *PostgresInviteRepository {
	return &PostgresInviteRepository{pool: pool}
}

func (r *PostgresInviteRepository) FindUnexpired(ctx context.Context, botID string, participantID int64, menuEntryID string, now time.Time) (*model.InviteGrant, error) {
	const sql = `
SELECT id, bot_id, participant_id, menu_entry_id, invite_url, issued_at, expires_at
  FROM invite_grants
 WHERE bot_id = $1
   AND participant_id = $2
   AND menu_entry_id = $3
   AND expires_at >= $4
 ORDER BY issued_at DESC
 LIMIT 1;
`
	row := r.pool.QueryRow(ctx, sql, botID, participantID, menuEntryID, now)

	var g model.InviteGrant
	if err := row.Scan(&g.ID, &g.BotID, &g.ParticipantID, &g.MenuEntryID, &g.InviteURL, &g.IssuedAt, &g.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: querying invite grant: %w", err)
	}
	return &g, nil
}

func (r *PostgresInviteRepository) Insert(ctx context.Context, g *model.InviteGrant) error {
	const sql = `
INSERT INTO invite_grants (id, bot_id, participant_id, menu_entry_id, invite_url, issued_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, sql, g.ID, g.BotID, g.ParticipantID, g.MenuEntryID, g.InviteURL, g.IssuedAt, g.ExpiresAt)
	if err != nil {
		return fmt.Errorf("postgres: inserting invite grant: %w", err)
	}
	return nil
}
