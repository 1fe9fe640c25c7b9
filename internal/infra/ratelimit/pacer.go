package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer is a token-bucket delivery limiter bounding outbound sends to the
// provider's accepted rate. It satisfies usecase.DeliveryLimiter.
type Pacer struct {
	l *rate.Limiter
}

func NewPacer(perSecond float64, burst int) *Pacer {
	if perSecond <= 0 {
		perSecond = 20
	}
	if burst <= 0 {
		burst = 1
	}
	return &Pacer{l: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.l.Wait(ctx)
}

// Unpaced is a no-op limiter for tests and dev runs.
type Unpaced struct{}

func (Unpaced) Wait(context.Context) error { return nil }
