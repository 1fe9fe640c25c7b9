package model

import (
	"time"

	"github.com/oklog/ulid/v2"

	"telegram-gatekeeper/internal/domain"
)

type BroadcastMode string

const (
	ModeImmediate BroadcastMode = "immediate"
	ModeScheduled BroadcastMode = "scheduled"
)

// BroadcastBody is the operator-authored payload of a broadcast.
type BroadcastBody struct {
	Text         string
	MediaURLs    []string
	MenuEntryIDs []string
}

// BroadcastJob is a broadcast scheduled for immediate or deferred fan-out.
// Once Sent flips to true the row is never mutated again.
type BroadcastJob struct {
	ID           string
	BotID        string
	Body         BroadcastBody
	Mode         BroadcastMode
	ScheduledFor *time.Time
	Sent         bool
	SentAt       *time.Time
	CreatedAt    time.Time
}

func NewBroadcastJob(botID string, body BroadcastBody, mode BroadcastMode, scheduledFor *time.Time, now time.Time) (*BroadcastJob, error) {
	if body.Text == "" {
		return nil, domain.ErrInvalidArgument
	}
	switch mode {
	case ModeImmediate:
		scheduledFor = nil
	case ModeScheduled:
		if scheduledFor == nil {
			return nil, domain.ErrInvalidArgument
		}
	default:
		return nil, domain.ErrInvalidArgument
	}
	return &BroadcastJob{
		ID:           ulid.Make().String(),
		BotID:        botID,
		Body:         body,
		Mode:         mode,
		ScheduledFor: scheduledFor,
		CreatedAt:    now,
	}, nil
}

// Due reports whether a scheduled job should be picked up by the poller.
func (j *BroadcastJob) Due(now time.Time) bool {
	return j.Mode == ModeScheduled && !j.Sent && j.ScheduledFor != nil && !j.ScheduledFor.After(now)
}
