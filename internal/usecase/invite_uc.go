package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/domain"
	"telegram-gatekeeper/internal/domain/model"
	"telegram-gatekeeper/internal/domain/ports/adapter"
	"telegram-gatekeeper/internal/domain/ports/repository"
	"telegram-gatekeeper/internal/infra/metrics"
)

// InviteUseCase mints and caches single-use, time-boxed group invites.
type InviteUseCase interface {
	// GetOrCreate returns the unexpired grant for the triple if one exists,
	// otherwise mints a fresh invite through the provider. A provider mint
	// failure surfaces as domain.ErrInviteUnavailable; callers omit the menu
	// entry instead of failing the delivery.
	GetOrCreate(ctx context.Context, bot *model.Bot, participantID int64, entry *model.MenuEntry) (*model.InviteGrant, error)
}

type inviteUC struct {
	grants    repository.InviteRepository
	messenger adapter.MessengerAdapter
	log       *zerolog.Logger
	now       func() time.Time
}

func NewInviteUseCase(grants repository.InviteRepository, messenger adapter.MessengerAdapter, logger *zerolog.Logger) InviteUseCase {
	return &inviteUC{
		grants:    grants,
		messenger: messenger,
		log:       logger,
		now:       time.Now,
	}
}

func (uc *inviteUC) GetOrCreate(ctx context.Context, bot *model.Bot, participantID int64, entry *model.MenuEntry) (*model.InviteGrant, error) {
	if entry.Kind != model.MenuGroupInvite {
		return nil, fmt.Errorf("menu entry %s is not a group invite: %w", entry.ID, domain.ErrInvalidArgument)
	}

	now := uc.now()
	grant, err := uc.grants.FindUnexpired(ctx, bot.ID, participantID, entry.ID, now)
	if err == nil {
		metrics.IncInvite("cache_hit")
		return grant, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find invite grant: %w", err)
	}

	url, err := uc.messenger.CreateInviteLink(ctx, bot.ID, entry.Target, now.Add(model.InviteTTL), 1)
	if err != nil {
		metrics.IncInvite("failed")
		uc.log.Warn().Err(err).
			Str("bot_id", bot.ID).
			Int64("participant_id", participantID).
			Str("menu_entry_id", entry.ID).
			Msg("invite mint failed")
		return nil, domain.ErrInviteUnavailable
	}

	grant = model.NewInviteGrant(bot.ID, participantID, entry.ID, url, now)
	if err := uc.grants.Insert(ctx, grant); err != nil {
		return nil, fmt.Errorf("store invite grant: %w", err)
	}

	metrics.IncInvite("minted")
	return grant, nil
}
