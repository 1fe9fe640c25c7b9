package model

import (
	"time"

	"github.com/google/uuid"
)

// ChallengeTTL is how long a participant has to echo the code back.
const ChallengeTTL = 120 * time.Second

// Challenge is the time-boxed numeric code a participant must echo back to
// pass the gate. Expiry is derived from the clock; rows are never deleted,
// older validated/expired challenges stay around as history.
type Challenge struct {
	ID            string
	BotID         string
	ParticipantID int64
	Code          string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	Validated     bool
}

func NewChallenge(botID string, participantID int64, code string, now time.Time) *Challenge {
	return &Challenge{
		ID:            uuid.NewString(),
		BotID:         botID,
		ParticipantID: participantID,
		Code:          code,
		IssuedAt:      now,
		ExpiresAt:     now.Add(ChallengeTTL),
	}
}

func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Open reports whether the challenge can still be matched by an attempt.
func (c *Challenge) Open(now time.Time) bool {
	return !c.Validated && !c.Expired(now)
}
