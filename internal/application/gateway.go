package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/domain/model"
	"telegram-gatekeeper/internal/domain/ports/adapter"
	"telegram-gatekeeper/internal/domain/ports/repository"
	"telegram-gatekeeper/internal/infra/metrics"
	"telegram-gatekeeper/internal/usecase"
)

const genericFailureNotice = "❌ Something went wrong. Please try again."
const rejectedNotice = "❌ Incorrect code. Try again, or send /start for a new code."
const expiredNotice = "⏰ Your code has expired or is invalid.\n\nSend /start to receive a new code."

// EventDeduper remembers recently seen provider update ids so retried
// deliveries of the same update are dropped instead of re-processed.
type EventDeduper interface {
	// Seen marks the update id and reports whether it was already recorded.
	Seen(ctx context.Context, botID string, updateID int64) (bool, error)
}

// FloodLimiter throttles inbound events per participant.
type FloodLimiter interface {
	Allow(ctx context.Context, botID string, participantID int64) (bool, error)
}

// InboundEvent is one provider update, already reduced to the fields the gate
// cares about. The bot identity travels out-of-band (webhook routing).
type InboundEvent struct {
	UpdateID int64
	ChatID   int64
	Text     string
	Profile  model.Profile
}

// Gateway composes the challenge, invite and delivery engines into the
// inbound event flow: dedup, roster touch, ban gate, then /start vs code
// attempt.
type Gateway struct {
	bots      repository.BotRepository
	roster    repository.RosterRepository
	menus     repository.MenuRepository
	challenge usecase.ChallengeUseCase
	delivery  usecase.DeliveryUseCase
	messenger adapter.MessengerAdapter
	dedup     EventDeduper
	flood     FloodLimiter
	log       *zerolog.Logger
}

func NewGateway(
	bots repository.BotRepository,
	roster repository.RosterRepository,
	menus repository.MenuRepository,
	challenge usecase.ChallengeUseCase,
	delivery usecase.DeliveryUseCase,
	messenger adapter.MessengerAdapter,
	dedup EventDeduper,
	flood FloodLimiter,
	logger *zerolog.Logger,
) *Gateway {
	compLog := logger.With().Str("component", "Gateway").Logger()
	return &Gateway{
		bots:      bots,
		roster:    roster,
		menus:     menus,
		challenge: challenge,
		delivery:  delivery,
		messenger: messenger,
		dedup:     dedup,
		flood:     flood,
		log:       &compLog,
	}
}

// HandleEvent processes one inbound update. Store errors are fatal for this
// interaction only: the participant gets a generic notice and the error is
// returned for logging, shared state stays intact.
func (g *Gateway) HandleEvent(ctx context.Context, botID string, ev InboundEvent) error {
	bot, err := g.bots.Find(ctx, botID)
	if err != nil {
		metrics.IncUpdate("error")
		return fmt.Errorf("resolve bot %s: %w", botID, err)
	}

	seen, err := g.dedup.Seen(ctx, botID, ev.UpdateID)
	if err != nil {
		// Dedup is best-effort; losing it degrades to at-least-once.
		g.log.Warn().Err(err).Str("bot_id", botID).Msg("event dedup unavailable")
	} else if seen {
		metrics.IncUpdate("duplicate")
		return nil
	}

	if ok, err := g.flood.Allow(ctx, botID, ev.Profile.ParticipantID); err == nil && !ok {
		metrics.IncUpdate("throttled")
		return nil
	}

	if err := g.roster.Touch(ctx, botID, ev.Profile); err != nil {
		metrics.IncUpdate("error")
		g.notify(ctx, bot, ev.ChatID, genericFailureNotice)
		return fmt.Errorf("roster touch: %w", err)
	}

	banned, err := g.roster.IsBanned(ctx, botID, ev.Profile.ParticipantID)
	if err != nil {
		metrics.IncUpdate("error")
		g.notify(ctx, bot, ev.ChatID, genericFailureNotice)
		return fmt.Errorf("ban check: %w", err)
	}
	if banned {
		metrics.IncUpdate("banned")
		g.notify(ctx, bot, ev.ChatID, bot.RenderBanned(ev.Profile.FirstName))
		return nil
	}

	if strings.TrimSpace(ev.Text) == "/start" {
		err = g.handleStart(ctx, bot, ev)
	} else {
		err = g.handleAttempt(ctx, bot, ev)
	}
	if err != nil {
		metrics.IncUpdate("error")
		return err
	}
	metrics.IncUpdate("processed")
	return nil
}

func (g *Gateway) handleStart(ctx context.Context, bot *model.Bot, ev InboundEvent) error {
	prompt, err := g.challenge.Issue(ctx, bot, ev.Profile.ParticipantID, ev.Profile.FirstName)
	if err != nil {
		g.notify(ctx, bot, ev.ChatID, genericFailureNotice)
		return err
	}
	return g.messenger.SendText(ctx, bot.ID, ev.ChatID, prompt, nil)
}

func (g *Gateway) handleAttempt(ctx context.Context, bot *model.Bot, ev InboundEvent) error {
	status, err := g.challenge.Validate(ctx, bot, ev.Profile.ParticipantID, ev.Text)
	if err != nil {
		g.notify(ctx, bot, ev.ChatID, genericFailureNotice)
		return err
	}

	switch status {
	case usecase.AttemptRejected:
		return g.messenger.SendText(ctx, bot.ID, ev.ChatID, rejectedNotice, nil)
	case usecase.AttemptExpired:
		return g.messenger.SendText(ctx, bot.ID, ev.ChatID, expiredNotice, nil)
	case usecase.AttemptAccepted:
		return g.deliverWelcome(ctx, bot, ev)
	}
	return nil
}

// deliverWelcome runs the fan-out engine in single-recipient mode. A failed
// rich send falls back to a plain-text welcome without the menu.
func (g *Gateway) deliverWelcome(ctx context.Context, bot *model.Bot, ev InboundEvent) error {
	menu, err := g.menus.ListActive(ctx, bot.ID)
	if err != nil {
		g.notify(ctx, bot, ev.ChatID, genericFailureNotice)
		return fmt.Errorf("resolve menu: %w", err)
	}

	body := usecase.Body{
		Text: bot.RenderWelcome(ev.Profile.FirstName),
		Menu: menu,
	}
	if bot.WelcomeImageURL != "" {
		body.MediaURLs = []string{bot.WelcomeImageURL}
	}

	recipient := &model.Recipient{BotID: bot.ID, ParticipantID: ev.Profile.ParticipantID}
	report := g.delivery.Deliver(ctx, bot, body, []*model.Recipient{recipient})
	if len(report.Failures) > 0 {
		g.log.Warn().
			Str("bot_id", bot.ID).
			Int64("participant_id", ev.Profile.ParticipantID).
			Str("reason", report.Failures[0].Reason).
			Msg("rich welcome failed, falling back to plain text")
		return g.messenger.SendText(ctx, bot.ID, ev.ChatID, body.Text, nil)
	}
	return nil
}

// notify sends a short notice, best-effort.
func (g *Gateway) notify(ctx context.Context, bot *model.Bot, chatID int64, text string) {
	if err := g.messenger.SendText(ctx, bot.ID, chatID, text, nil); err != nil {
		g.log.Warn().Err(err).Str("bot_id", bot.ID).Int64("chat_id", chatID).Msg("notice send failed")
	}
}
