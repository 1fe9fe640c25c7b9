package model

import (
	"time"

	"github.com/google/uuid"
)

// InviteTTL mirrors the provider-side expiry set when minting the link.
const InviteTTL = 120 * time.Second

// InviteGrant is a cached single-use group-invite URL issued to one
// participant for one menu entry. Grants are immutable; a new grant may only
// be issued once the prior one has expired.
type InviteGrant struct {
	ID            string
	BotID         string
	ParticipantID int64
	MenuEntryID   string
	InviteURL     string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

func NewInviteGrant(botID string, participantID int64, menuEntryID, inviteURL string, now time.Time) *InviteGrant {
	return &InviteGrant{
		ID:            uuid.NewString(),
		BotID:         botID,
		ParticipantID: participantID,
		MenuEntryID:   menuEntryID,
		InviteURL:     inviteURL,
		IssuedAt:      now,
		ExpiresAt:     now.Add(InviteTTL),
	}
}

func (g *InviteGrant) Expired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}
