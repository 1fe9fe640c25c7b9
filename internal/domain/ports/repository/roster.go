package repository

import (
	"context"

	"telegram-gatekeeper/internal/domain/model"
)

// RosterRepository is the participant directory. The core owns only the Touch
// upsert (profile refresh + interaction counter); ban status is written by the
// operator surface, the core just filters on it.
type RosterRepository interface {
	// ListActive returns every non-banned recipient of the bot.
	ListActive(ctx context.Context, botID string) ([]*model.Recipient, error)
	IsBanned(ctx context.Context, botID string, participantID int64) (bool, error)
	Touch(ctx context.Context, botID string, p model.Profile) error
}
