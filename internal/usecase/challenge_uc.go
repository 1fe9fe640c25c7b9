package usecase

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/domain"
	"telegram-gatekeeper/internal/domain/model"
	"telegram-gatekeeper/internal/domain/ports/repository"
	"telegram-gatekeeper/internal/infra/metrics"
)

// AttemptStatus is the outcome of a code validation attempt.
type AttemptStatus int

const (
	AttemptAccepted AttemptStatus = iota
	AttemptRejected
	AttemptExpired
)

func (s AttemptStatus) String() string {
	switch s {
	case AttemptAccepted:
		return "accepted"
	case AttemptRejected:
		return "rejected"
	case AttemptExpired:
		return "expired"
	}
	return "unknown"
}

// ChallengeUseCase is the gate's state machine per (bot, participant):
// NoChallenge -> Issued -> {Validated | Expired}. Expired is derived from the
// clock, never stored.
type ChallengeUseCase interface {
	// Issue creates a fresh challenge and returns the rendered prompt.
	Issue(ctx context.Context, bot *model.Bot, participantID int64, firstName string) (string, error)
	// Validate matches submitted text against the most recent open challenge.
	// A wrong guess leaves the challenge live for later attempts.
	Validate(ctx context.Context, bot *model.Bot, participantID int64, submitted string) (AttemptStatus, error)
}

type challengeUC struct {
	challenges repository.ChallengeRepository
	log        *zerolog.Logger
	now        func() time.Time
}

func NewChallengeUseCase(challenges repository.ChallengeRepository, logger *zerolog.Logger) ChallengeUseCase {
	return &challengeUC{
		challenges: challenges,
		log:        logger,
		now:        time.Now,
	}
}

func (uc *challengeUC) Issue(ctx context.Context, bot *model.Bot, participantID int64, firstName string) (string, error) {
	code, err := generateChallengeCode()
	if err != nil {
		return "", fmt.Errorf("generate challenge code: %w", err)
	}

	ch := model.NewChallenge(bot.ID, participantID, code, uc.now())
	if err := uc.challenges.Insert(ctx, ch); err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}

	metrics.IncChallengeIssued()
	uc.log.Info().Str("bot_id", bot.ID).Int64("participant_id", participantID).Msg("challenge issued")

	return bot.RenderChallenge(firstName, code), nil
}

func (uc *challengeUC) Validate(ctx context.Context, bot *model.Bot, participantID int64, submitted string) (AttemptStatus, error) {
	ch, err := uc.challenges.FindLatestOpen(ctx, bot.ID, participantID, uc.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncChallengeAttempt(AttemptExpired.String())
			return AttemptExpired, nil
		}
		return AttemptExpired, fmt.Errorf("find open challenge: %w", err)
	}

	if ch.Code != strings.TrimSpace(submitted) {
		metrics.IncChallengeAttempt(AttemptRejected.String())
		return AttemptRejected, nil
	}

	if err := uc.challenges.MarkValidated(ctx, ch.ID); err != nil {
		return AttemptRejected, fmt.Errorf("mark challenge validated: %w", err)
	}

	metrics.IncChallengeAttempt(AttemptAccepted.String())
	uc.log.Info().Str("bot_id", bot.ID).Int64("participant_id", participantID).Msg("challenge validated")
	return AttemptAccepted, nil
}

// generateChallengeCode draws a 6-digit code uniformly from 100000-999999.
// Codes are scoped per participant, so cross-participant collisions are fine.
func generateChallengeCode() (string, error) {
	const span = 900000
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint64(buf[:]) % span
	return fmt.Sprintf("%06d", 100000+n), nil
}
