package repository

import (
	"context"
	"time"

	"telegram-gatekeeper/internal/domain/model"
)

// InviteRepository persists issued invite grants. Grants are append-only;
// newer grants supersede expired ones. FindUnexpired returns
// domain.ErrNotFound when every grant for the triple has expired.
type InviteRepository interface {
	FindUnexpired(ctx context.Context, botID string, participantID int64, menuEntryID string, now time.Time) (*model.InviteGrant, error)
	Insert(ctx context.Context, g *model.InviteGrant) error
}
