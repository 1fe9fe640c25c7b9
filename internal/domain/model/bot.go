package model

import "strings"

// Built-in fallbacks used when a bot has no operator-supplied template.
const (
	defaultChallengeTemplate = "\U0001F44B Hello <b>{name}</b>!\n\n\U0001F510 To verify your identity, please enter this code:\n\n<code>{code}</code>\n\n⏱ The code expires in <b>2 minutes</b>."
	defaultWelcomeTemplate   = "✅ <b>Code accepted!</b>\n\n\U0001F389 Welcome {name}!\n\nYou are now verified and can use this bot."
	defaultBannedTemplate    = "\U0001F6AB <b>Access denied</b>\n\nYou have been banned from this bot.\n\nIf you believe this is a mistake, contact the administrator."

	// DefaultActionsText is the follow-up message carrying the inline
	// keyboard when a grouped-media send cannot attach one.
	DefaultActionsText = "\U0001F447 Available actions:"
)

// Bot is one gated bot identity: its (already decrypted) provider token plus
// the operator-supplied message templates. Templates may contain {name} and
// {code} placeholders and literal \n sequences; empty templates fall back to
// the built-in defaults at render time.
type Bot struct {
	ID                string
	Token             string
	ChallengeTemplate string
	WelcomeTemplate   string
	WelcomeImageURL   string
	BannedTemplate    string
}

func (b *Bot) RenderChallenge(name, code string) string {
	return render(b.ChallengeTemplate, defaultChallengeTemplate, name, code)
}

func (b *Bot) RenderWelcome(name string) string {
	return render(b.WelcomeTemplate, defaultWelcomeTemplate, name, "")
}

func (b *Bot) RenderBanned(name string) string {
	return render(b.BannedTemplate, defaultBannedTemplate, name, "")
}

// render substitutes {name} and {code} and converts literal \n sequences
// (operators type them in a single-line input) into newlines.
func render(tpl, fallback, name, code string) string {
	if strings.TrimSpace(tpl) == "" {
		tpl = fallback
	}
	s := strings.ReplaceAll(tpl, "{name}", name)
	s = strings.ReplaceAll(s, "{code}", code)
	return strings.ReplaceAll(s, `\n`, "\n")
}
