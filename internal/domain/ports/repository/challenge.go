package repository

import (
	"context"
	"time"

	"telegram-gatekeeper/internal/domain/model"
)

// ChallengeRepository persists verification challenges. FindLatestOpen scopes
// by (bot, participant) and returns domain.ErrNotFound when no unvalidated,
// unexpired challenge exists at `now`.
type ChallengeRepository interface {
	Insert(ctx context.Context, c *model.Challenge) error
	FindLatestOpen(ctx context.Context, botID string, participantID int64, now time.Time) (*model.Challenge, error)
	MarkValidated(ctx context.Context, id string) error
}
