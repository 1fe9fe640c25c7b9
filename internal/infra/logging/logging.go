package logging

import (
	"context"
	"os"
	"strings"
	"time"

	"telegram-gatekeeper/internal/config"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger configured from config.
// Supports "trace" | "debug" | "info" | "warn" | "error" levels
// and "json" | "console" formats. Sampling can be enabled to reduce noise in prod.
func New(cfg config.LogConfig, dev bool) *zerolog.Logger {
	level, _ := zerolog.ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var base zerolog.Logger
	if strings.ToLower(cfg.Format) == "console" || dev {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		base = zerolog.New(out).With().Timestamp().Logger()
	} else {
		base = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	if cfg.Sampling && !dev {
		// Keep first 100, then 1 every 100 thereafter.
		sampled := base.Sample(&zerolog.BasicSampler{N: 100})
		return &sampled
	}
	return &base
}

type ctxKey string

const (
	ctxTraceID       ctxKey = "trace_id"
	ctxBotID         ctxKey = "bot_id"
	ctxParticipantID ctxKey = "participant_id"
)

// With attaches common context fields such as trace_id, bot_id and
// participant_id to a derived logger.
func With(ctx context.Context, base *zerolog.Logger) *zerolog.Logger {
	l := base.With()
	if v := ctx.Value(ctxTraceID); v != nil {
		l = l.Str("trace_id", v.(string))
	}
	if v := ctx.Value(ctxBotID); v != nil {
		l = l.Str("bot_id", v.(string))
	}
	if v := ctx.Value(ctxParticipantID); v != nil {
		l = l.Int64("participant_id", v.(int64))
	}
	logger := l.Logger()
	return &logger
}

// Helpers to put IDs into context.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxTraceID, id)
}
func WithBotID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxBotID, id)
}
func WithParticipantID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxParticipantID, id)
}
