package repository

import (
	"context"
	"time"

	"telegram-gatekeeper/internal/domain/model"
)

// JobRepository persists broadcast jobs.
type JobRepository interface {
	Insert(ctx context.Context, j *model.BroadcastJob) error
	Find(ctx context.Context, id string) (*model.BroadcastJob, error)
	// ListDue returns scheduled, unsent jobs whose scheduled_for <= now.
	ListDue(ctx context.Context, now time.Time) ([]*model.BroadcastJob, error)
	// Claim atomically flips sent=false -> sent=true and stamps sent_at.
	// It returns false when another run already claimed the job; callers must
	// skip delivery in that case.
	Claim(ctx context.Context, id string, now time.Time) (bool, error)
}
