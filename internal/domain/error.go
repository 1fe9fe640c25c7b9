package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrBanned            = errors.New("participant is banned")
	ErrInviteUnavailable = errors.New("no invite available")
	ErrJobClaimed        = errors.New("broadcast job already claimed")
	ErrDuplicateEvent    = errors.New("event already processed")
	ErrInvalidArgument   = errors.New("invalid argument")
)
