package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/domain/model"
	"telegram-gatekeeper/internal/domain/ports/adapter"
	"telegram-gatekeeper/internal/infra/metrics"
)

// Body is one composed outbound message: text, optional media, and the menu
// entries to render as inline actions. Invite-type entries are resolved per
// recipient at send time.
type Body struct {
	Text        string
	MediaURLs   []string
	Menu        []*model.MenuEntry
	ActionsText string // follow-up text for grouped-media keyboards
}

type DeliveryFailure struct {
	ParticipantID int64
	Reason        string
}

type DeliveryReport struct {
	Sent     int
	Total    int
	Failures []DeliveryFailure
}

// DeliveryLimiter paces outbound sends to the provider's accepted rate.
type DeliveryLimiter interface {
	Wait(ctx context.Context) error
}

// DeliveryUseCase fans a composed message out to a roster with per-recipient
// isolation: one failed send is recorded and the batch carries on. Every
// recipient is attempted exactly once; provider calls are never retried.
type DeliveryUseCase interface {
	Deliver(ctx context.Context, bot *model.Bot, body Body, recipients []*model.Recipient) DeliveryReport
}

type deliveryUC struct {
	invites   InviteUseCase
	messenger adapter.MessengerAdapter
	limiter   DeliveryLimiter
	log       *zerolog.Logger
}

func NewDeliveryUseCase(invites InviteUseCase, messenger adapter.MessengerAdapter, limiter DeliveryLimiter, logger *zerolog.Logger) DeliveryUseCase {
	return &deliveryUC{
		invites:   invites,
		messenger: messenger,
		limiter:   limiter,
		log:       logger,
	}
}

func (uc *deliveryUC) Deliver(ctx context.Context, bot *model.Bot, body Body, recipients []*model.Recipient) DeliveryReport {
	report := DeliveryReport{Total: len(recipients)}

	for _, r := range recipients {
		if err := uc.limiter.Wait(ctx); err != nil {
			report.Failures = append(report.Failures, DeliveryFailure{ParticipantID: r.ParticipantID, Reason: err.Error()})
			metrics.IncDeliveryFailure()
			continue
		}
		if err := uc.deliverOne(ctx, bot, body, r); err != nil {
			uc.log.Warn().Err(err).
				Str("bot_id", bot.ID).
				Int64("participant_id", r.ParticipantID).
				Msg("delivery failed")
			report.Failures = append(report.Failures, DeliveryFailure{ParticipantID: r.ParticipantID, Reason: err.Error()})
			metrics.IncDeliveryFailure()
			continue
		}
		report.Sent++
	}

	uc.log.Info().
		Str("bot_id", bot.ID).
		Int("sent", report.Sent).
		Int("total", report.Total).
		Msg("delivery batch finished")
	return report
}

// deliverOne applies the composition rules: 0 media -> text with inline
// actions, 1 media -> captioned media with actions attached, >1 media ->
// media group (caption on first item) plus a separate actions message.
func (uc *deliveryUC) deliverOne(ctx context.Context, bot *model.Bot, body Body, r *model.Recipient) error {
	buttons := uc.buildKeyboard(ctx, bot, r.ParticipantID, body.Menu)
	chatID := r.ParticipantID

	switch len(body.MediaURLs) {
	case 0:
		if err := uc.messenger.SendText(ctx, bot.ID, chatID, body.Text, buttons); err != nil {
			return err
		}
		metrics.IncMessageSent("text")
	case 1:
		if err := uc.messenger.SendMedia(ctx, bot.ID, chatID, body.MediaURLs[0], body.Text, buttons); err != nil {
			return err
		}
		metrics.IncMessageSent("media")
	default:
		if err := uc.messenger.SendMediaGroup(ctx, bot.ID, chatID, body.MediaURLs, body.Text); err != nil {
			return err
		}
		metrics.IncMessageSent("media_group")
		if len(buttons) > 0 {
			actions := body.ActionsText
			if actions == "" {
				actions = model.DefaultActionsText
			}
			if err := uc.messenger.SendText(ctx, bot.ID, chatID, actions, buttons); err != nil {
				return err
			}
			metrics.IncMessageSent("actions")
		}
	}
	return nil
}

// buildKeyboard renders the menu for one recipient, one action per row.
// Invite entries that cannot be resolved are dropped from this recipient's
// keyboard rather than blocking the send.
func (uc *deliveryUC) buildKeyboard(ctx context.Context, bot *model.Bot, participantID int64, menu []*model.MenuEntry) [][]adapter.InlineButton {
	var rows [][]adapter.InlineButton
	for _, entry := range menu {
		switch entry.Kind {
		case model.MenuExternalLink:
			rows = append(rows, []adapter.InlineButton{{Label: entry.Label, URL: entry.Target}})
		case model.MenuMiniApp:
			rows = append(rows, []adapter.InlineButton{{Label: entry.Label, WebAppURL: entry.Target}})
		case model.MenuGroupInvite:
			grant, err := uc.invites.GetOrCreate(ctx, bot, participantID, entry)
			if err != nil {
				uc.log.Debug().Err(err).
					Str("menu_entry_id", entry.ID).
					Int64("participant_id", participantID).
					Msg("invite entry dropped")
				continue
			}
			rows = append(rows, []adapter.InlineButton{{Label: entry.Label, URL: grant.InviteURL}})
		}
	}
	return rows
}
