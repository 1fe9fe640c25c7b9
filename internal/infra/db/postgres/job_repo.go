package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-gatekeeper/internal/domain"
	"telegram-gatekeeper/internal/domain/model"
)

// PostgresJobRepository is a Postgres adapter for repository.JobRepository.
type PostgresJobRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresJobRepo(pool *pgxpool.Pool) *PostgresJobRepository {
	return &PostgresJobRepository{pool: pool}
}

func (r *PostgresJobRepository) Insert(ctx context.Context, j *model.BroadcastJob) error {
	const sql = `
INSERT INTO broadcast_jobs (id, bot_id, body_text, media_urls, menu_entry_ids, mode, scheduled_for, sent, sent_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, sql,
		j.ID, j.BotID, j.Body.Text, j.Body.MediaURLs, j.Body.MenuEntryIDs,
		string(j.Mode), j.ScheduledFor, j.Sent, j.SentAt, j.CreatedAt,
	)
	if err != nil {
		// An unknown bot id trips the FK; surface it as a not-found so the
		// operator API can 404 instead of 500.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("postgres: inserting broadcast job: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("postgres: inserting broadcast job: %w", err)
	}
	return nil
}

func (r *PostgresJobRepository) Find(ctx context.Context, id string) (*model.BroadcastJob, error) {
	const sql = `
SELECT id, bot_id, body_text, media_urls, menu_entry_ids, mode, scheduled_for, sent, sent_at, created_at
  FROM broadcast_jobs
 WHERE id = $1;
`
	return scanJob(r.pool.QueryRow(ctx, sql, id))
}

func (r *PostgresJobRepository) ListDue(ctx context.Context, now time.Time) ([]*model.BroadcastJob, error) {
	const sql = `
SELECT id, bot_id, body_text, media_urls, menu_entry_ids, mode, scheduled_for, sent, sent_at, created_at
  FROM broadcast_jobs
 WHERE mode = 'scheduled'
   AND NOT sent
   AND scheduled_for <= $1
 ORDER BY scheduled_for;
`
	rows, err := r.pool.Query(ctx, sql, now)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing due jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.BroadcastJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Claim is the single conditional update that makes overlapping poll cycles
// safe: only one caller observes RowsAffected == 1 for a given job.
func (r *PostgresJobRepository) Claim(ctx context.Context, id string, now time.Time) (bool, error) {
	const sql = `
UPDATE broadcast_jobs
   SET sent = TRUE, sent_at = $2
 WHERE id = $1
   AND NOT sent;
`
	tag, err := r.pool.Exec(ctx, sql, id, now)
	if err != nil {
		return false, fmt.Errorf("postgres: claiming broadcast job: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanJob(row pgx.Row) (*model.BroadcastJob, error) {
	var (
		j    model.BroadcastJob
		mode string
	)
	err := row.Scan(
		&j.ID, &j.BotID, &j.Body.Text, &j.Body.MediaURLs, &j.Body.MenuEntryIDs,
		&mode, &j.ScheduledFor, &j.Sent, &j.SentAt, &j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: scanning broadcast job: %w", err)
	}
	j.Mode = model.BroadcastMode(mode)
	return &j, nil
}
