package adapter

import (
	"context"
	"time"
)

// InlineButton is one action in an inline keyboard row. Exactly one of URL
// and WebAppURL is set.
type InlineButton struct {
	Label     string
	URL       string
	WebAppURL string
}

// MessengerAdapter is the outbound provider surface the engines depend on.
// Every call is addressed by bot identity; the implementation resolves the
// bot's credential itself. Calls are not retried by callers; a failure is a
// per-recipient failure.
type MessengerAdapter interface {
	SendText(ctx context.Context, botID string, chatID int64, text string, buttons [][]InlineButton) error
	// SendMedia sends one photo or video with the text as caption and the
	// keyboard attached directly.
	SendMedia(ctx context.Context, botID string, chatID int64, mediaURL, caption string, buttons [][]InlineButton) error
	// SendMediaGroup sends a grouped-media message; the caption rides on the
	// first item only and no keyboard can be attached, per the transport
	// protocol.
	SendMediaGroup(ctx context.Context, botID string, chatID int64, mediaURLs []string, caption string) error
	// CreateInviteLink mints a time-boxed invite for the target chat,
	// restricted to memberLimit joins.
	CreateInviteLink(ctx context.Context, botID string, target string, expireAt time.Time, memberLimit int) (string, error)
}
