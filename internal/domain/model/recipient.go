package model

import "time"

// Recipient is a row in the participant directory for one bot. The core only
// writes through Touch-style upserts; ban status is managed elsewhere.
type Recipient struct {
	BotID         string
	ParticipantID int64
	FirstName     string
	LastName      string
	Username      string
	LanguageCode  string
	Banned        bool
	Interactions  int64
	LastSeenAt    time.Time
}

// Profile carries the mutable participant fields refreshed on every inbound
// event.
type Profile struct {
	ParticipantID int64
	FirstName     string
	LastName      string
	Username      string
	LanguageCode  string
}
