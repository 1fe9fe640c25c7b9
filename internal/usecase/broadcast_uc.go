package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/domain"
	"telegram-gatekeeper/internal/domain/model"
	"telegram-gatekeeper/internal/domain/ports/repository"
	"telegram-gatekeeper/internal/infra/metrics"
)

// BroadcastUseCase creates broadcast jobs and drives due ones through the
// delivery engine.
type BroadcastUseCase interface {
	// CreateJob persists an operator-authored broadcast. Immediate jobs are
	// delivered inline; the returned report is nil for scheduled jobs.
	CreateJob(ctx context.Context, botID string, body model.BroadcastBody, scheduledFor *time.Time) (*model.BroadcastJob, *DeliveryReport, error)
	Find(ctx context.Context, botID, id string) (*model.BroadcastJob, error)
	// ProcessDue runs one poll cycle: every due job is claimed and delivered
	// at most once. Returns the number of jobs delivered this cycle.
	ProcessDue(ctx context.Context, now time.Time) (int, error)
}

type broadcastUC struct {
	jobs     repository.JobRepository
	bots     repository.BotRepository
	roster   repository.RosterRepository
	menus    repository.MenuRepository
	delivery DeliveryUseCase
	log      *zerolog.Logger
	now      func() time.Time
}

func NewBroadcastUseCase(
	jobs repository.JobRepository,
	bots repository.BotRepository,
	roster repository.RosterRepository,
	menus repository.MenuRepository,
	delivery DeliveryUseCase,
	logger *zerolog.Logger,
) BroadcastUseCase {
	return &broadcastUC{
		jobs:     jobs,
		bots:     bots,
		roster:   roster,
		menus:    menus,
		delivery: delivery,
		log:      logger,
		now:      time.Now,
	}
}

func (uc *broadcastUC) CreateJob(ctx context.Context, botID string, body model.BroadcastBody, scheduledFor *time.Time) (*model.BroadcastJob, *DeliveryReport, error) {
	mode := model.ModeImmediate
	if scheduledFor != nil {
		mode = model.ModeScheduled
	}
	job, err := model.NewBroadcastJob(botID, body, mode, scheduledFor, uc.now())
	if err != nil {
		return nil, nil, err
	}
	if err := uc.jobs.Insert(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("store broadcast job: %w", err)
	}

	if mode == model.ModeScheduled {
		uc.log.Info().Str("job_id", job.ID).Str("bot_id", botID).Time("scheduled_for", *scheduledFor).Msg("broadcast scheduled")
		return job, nil, nil
	}

	report, err := uc.runJob(ctx, job)
	if err != nil {
		return job, nil, err
	}
	return job, report, nil
}

func (uc *broadcastUC) Find(ctx context.Context, botID, id string) (*model.BroadcastJob, error) {
	job, err := uc.jobs.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.BotID != botID {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (uc *broadcastUC) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.jobs.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due jobs: %w", err)
	}

	processed := 0
	for _, job := range due {
		report, err := uc.runJob(ctx, job)
		if err != nil {
			if errors.Is(err, domain.ErrJobClaimed) {
				metrics.IncJobProcessed("claim_lost")
				continue
			}
			// Roster or menu lookup failed: leave the job pending, it gets
			// retried on the next cycle.
			metrics.IncJobProcessed("skipped")
			uc.log.Error().Err(err).Str("job_id", job.ID).Msg("broadcast job skipped this cycle")
			continue
		}
		metrics.IncJobProcessed("sent")
		processed++
		uc.log.Info().
			Str("job_id", job.ID).
			Int("sent", report.Sent).
			Int("total", report.Total).
			Msg("scheduled broadcast delivered")
	}
	return processed, nil
}

// runJob resolves the job's collaborators, claims it, and delivers. Lookups
// happen before the claim so a lookup failure never consumes the job; after a
// successful claim the batch always runs to completion, per-recipient
// failures included.
func (uc *broadcastUC) runJob(ctx context.Context, job *model.BroadcastJob) (*DeliveryReport, error) {
	bot, err := uc.bots.Find(ctx, job.BotID)
	if err != nil {
		return nil, fmt.Errorf("resolve bot %s: %w", job.BotID, err)
	}
	recipients, err := uc.roster.ListActive(ctx, job.BotID)
	if err != nil {
		return nil, fmt.Errorf("resolve roster: %w", err)
	}
	var menu []*model.MenuEntry
	if len(job.Body.MenuEntryIDs) > 0 {
		menu, err = uc.menus.FindActiveByIDs(ctx, job.BotID, job.Body.MenuEntryIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve menu entries: %w", err)
		}
	}

	claimed, err := uc.jobs.Claim(ctx, job.ID, uc.now())
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}
	if !claimed {
		return nil, domain.ErrJobClaimed
	}

	report := uc.delivery.Deliver(ctx, bot, Body{
		Text:      job.Body.Text,
		MediaURLs: job.Body.MediaURLs,
		Menu:      menu,
	}, recipients)
	return &report, nil
}
