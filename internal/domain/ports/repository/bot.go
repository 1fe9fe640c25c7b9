package repository

import (
	"context"

	"telegram-gatekeeper/internal/domain/model"
)

// BotRepository resolves bot identities to their credentials and templates.
// Tokens arrive already decrypted; secret handling happens upstream.
type BotRepository interface {
	Find(ctx context.Context, id string) (*model.Bot, error)
}
