package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/usecase"
)

// BroadcastWorker polls for due scheduled broadcasts and drives them through
// the delivery engine. One cycle runs to completion before the next tick is
// handled; overlap across replicas is made safe by the job claim.
type BroadcastWorker struct {
	interval    time.Duration
	cycleBudget time.Duration
	broadcasts  usecase.BroadcastUseCase
	log         *zerolog.Logger
}

func NewBroadcastWorker(interval, cycleBudget time.Duration, broadcasts usecase.BroadcastUseCase, logger *zerolog.Logger) *BroadcastWorker {
	compLog := logger.With().Str("component", "BroadcastWorker").Logger()
	if interval <= 0 {
		interval = time.Minute
	}
	if cycleBudget <= 0 {
		cycleBudget = 5 * time.Minute
	}
	return &BroadcastWorker{
		interval:    interval,
		cycleBudget: cycleBudget,
		broadcasts:  broadcasts,
		log:         &compLog,
	}
}

func (w *BroadcastWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting broadcast worker")
	// Run once on startup, then on every tick
	w.runCycle(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping broadcast worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *BroadcastWorker) runCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, w.cycleBudget)
	defer cancel()

	sent, err := w.broadcasts.ProcessDue(cycleCtx, time.Now())
	if err != nil {
		w.log.Error().Err(err).Msg("broadcast poll cycle failed")
		return
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("broadcasts delivered")
	}
}
