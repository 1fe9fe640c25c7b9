package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-gatekeeper/internal/domain"
	"telegram-gatekeeper/internal/domain/model"
)

// PostgresBotRepository resolves bot identities to credentials and templates.
type PostgresBotRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBotRepo(pool *pgxpool.Pool) *PostgresBotRepository {
	return &PostgresBotRepository{pool: pool}
}

func (r *PostgresBotRepository) Find(ctx context.Context, id string) (*model.Bot, error) {
	const sql = `
SELECT id, token, challenge_template, welcome_template, welcome_image_url, banned_template
  FROM bots
 WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, sql, id)

	var b model.Bot
	if err := row.Scan(&b.ID, &b.Token, &b.ChallengeTemplate, &b.WelcomeTemplate, &b.WelcomeImageURL, &b.BannedTemplate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: querying bot: %w", err)
	}
	return &b, nil
}
