package repository

import (
	"context"

	"telegram-gatekeeper/internal/domain/model"
)

// MenuRepository reads the operator-managed menu definitions. Entries come
// back active-only, ordered by position.
type MenuRepository interface {
	ListActive(ctx context.Context, botID string) ([]*model.MenuEntry, error)
	// FindActiveByIDs resolves an explicit selection (broadcast bodies refer
	// to entries by id). Unknown or inactive ids are simply absent from the
	// result.
	FindActiveByIDs(ctx context.Context, botID string, ids []string) ([]*model.MenuEntry, error)
}
