package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-gatekeeper/internal/domain/model"
)

// PostgresRosterRepository is a Postgres adapter for repository.RosterRepository.
type PostgresRosterRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRosterRepo(pool *pgxpool.Pool) *PostgresRosterRepository {
	return &PostgresRosterRepository{pool: pool}
}

func (r *PostgresRosterRepository) ListActive(ctx context.Context, botID string) ([]*model.Recipient, error) {
	const sql = `
SELECT bot_id, participant_id, first_name, last_name, username, language_code, banned, interactions, last_seen_at
  FROM recipients
 WHERE bot_id = $1
   AND NOT banned;
`
	rows, err := r.pool.Query(ctx, sql, botID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing recipients: %w", err)
	}
	defer rows.Close()

	var out []*model.Recipient
	for rows.Next() {
		var rec model.Recipient
		if err := rows.Scan(
			&rec.BotID, &rec.ParticipantID, &rec.FirstName, &rec.LastName,
			&rec.Username, &rec.LanguageCode, &rec.Banned, &rec.Interactions, &rec.LastSeenAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scanning recipient: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *PostgresRosterRepository) IsBanned(ctx context.Context, botID string, participantID int64) (bool, error) {
	const sql = `SELECT banned FROM recipients WHERE bot_id = $1 AND participant_id = $2;`
	var banned bool
	if err := r.pool.QueryRow(ctx, sql, botID, participantID).Scan(&banned); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown participants are not banned.
			return false, nil
		}
		return false, fmt.Errorf("postgres: querying ban status: %w", err)
	}
	return banned, nil
}

// Touch upserts the participant row, refreshing profile fields and bumping
// the interaction counter.
func (r *PostgresRosterRepository) Touch(ctx context.Context, botID string, p model.Profile) error {
	const sql = `
INSERT INTO recipients (bot_id, participant_id, first_name, last_name, username, language_code, interactions, last_seen_at)
VALUES ($1, $2, $3, $4, $5, $6, 1, now())
ON CONFLICT (bot_id, participant_id) DO UPDATE
  SET first_name    = EXCLUDED.first_name,
      last_name     = EXCLUDED.last_name,
      username      = EXCLUDED.username,
      language_code = EXCLUDED.language_code,
      interactions  = recipients.interactions + 1,
      last_seen_at  = now();
`
	_, err := r.pool.Exec(ctx, sql, botID, p.ParticipantID, p.FirstName, p.LastName, p.Username, p.LanguageCode)
	if err != nil {
		return fmt.Errorf("postgres: touching recipient: %w", err)
	}
	return nil
}
