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

// PostgresChallengeRepository is a Postgres adapter for repository.ChallengeRepository.
type PostgresChallengeRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresChallengeRepo(pool *pgxpool.Pool) *PostgresChallengeRepository {
	return &PostgresChallengeRepository{pool: pool}
}

func (r *PostgresChallengeRepository) Insert(ctx context.Context, c *model.Challenge) error {
	const sql = `
INSERT INTO challenges (id, bot_id, participant_id, code, issued_at, expires_at, validated)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, sql, c.ID, c.BotID, c.ParticipantID, c.Code, c.IssuedAt, c.ExpiresAt, c.Validated)
	if err != nil {
		return fmt.Errorf("postgres: inserting challenge: %w", err)
	}
	return nil
}

func (r *PostgresChallengeRepository) FindLatestOpen(ctx context.Context, botID string, participantID int64, now time.Time) (*model.Challenge, error) {
	const sql = `
SELECT id, bot_id, participant_id, code, issued_at, expires_at, validated
  FROM challenges
 WHERE bot_id = $1
   AND participant_id = $2
   AND NOT validated
   AND expires_at >= $3
 ORDER BY issued_at DESC
 LIMIT 1;
`
	row := r.pool.QueryRow(ctx, sql, botID, participantID, now)

	var c model.Challenge
	if err := row.Scan(&c.ID, &c.BotID, &c.ParticipantID, &c.Code, &c.IssuedAt, &c.ExpiresAt, &c.Validated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: querying open challenge: %w", err)
	}
	return &c, nil
}

func (r *PostgresChallengeRepository) MarkValidated(ctx context.Context, id string) error {
	const sql = `UPDATE challenges SET validated = TRUE WHERE id = $1;`
	tag, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("postgres: marking challenge validated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
