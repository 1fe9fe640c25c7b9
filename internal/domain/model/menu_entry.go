package model

import (
	"fmt"

	"telegram-gatekeeper/internal/domain"
)

// MenuKind is the closed set of menu entry variants.
type MenuKind string

const (
	MenuExternalLink MenuKind = "external_link"
	MenuMiniApp      MenuKind = "miniapp"
	MenuGroupInvite  MenuKind = "group_invite"
)

// MenuEntry is an operator-defined action offered to a validated participant.
// For ExternalLink and MiniApp entries Target is a URL; for GroupInvite it is
// the chat handle (or numeric id) the invite link is minted for.
type MenuEntry struct {
	ID       string
	BotID    string
	Label    string
	Kind     MenuKind
	Target   string
	Position int
	Active   bool
}

func (e *MenuEntry) Validate() error {
	if e.Label == "" {
		return fmt.Errorf("menu entry %s: empty label: %w", e.ID, domain.ErrInvalidArgument)
	}
	if e.Target == "" {
		return fmt.Errorf("menu entry %s: empty target: %w", e.ID, domain.ErrInvalidArgument)
	}
	switch e.Kind {
	case MenuExternalLink, MenuMiniApp, MenuGroupInvite:
		return nil
	default:
		return fmt.Errorf("menu entry %s: unknown kind %q: %w", e.ID, e.Kind, domain.ErrInvalidArgument)
	}
}
