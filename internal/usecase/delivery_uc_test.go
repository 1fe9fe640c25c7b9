// File: internal/usecase/delivery_uc_test.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"telegram-gatekeeper/internal/domain/model"
)

func testRoster(n int) []*model.Recipient {
	out := make([]*model.Recipient, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Recipient{BotID: "bot-1", ParticipantID: int64(100 + i), FirstName: fmt.Sprintf("user-%d", i)})
	}
	return out
}

func newDeliveryUnderTest(messenger *mockMessenger) DeliveryUseCase {
	logger := newTestLogger()
	invites := NewInviteUseCase(newMemInviteRepo(), messenger, logger)
	return NewDeliveryUseCase(invites, messenger, noopLimiter{}, logger)
}

func TestDeliveryUseCase(t *testing.T) {
	ctx := context.Background()
	bot := &model.Bot{ID: "bot-1"}

	t.Run("one failed recipient does not stop the batch", func(t *testing.T) {
		messenger := newMockMessenger()
		messenger.failFor[103] = errors.New("bot was blocked by the user")
		messenger.failFor[107] = errors.New("bot was blocked by the user")
		uc := newDeliveryUnderTest(messenger)

		report := uc.Deliver(ctx, bot, Body{Text: "hello"}, testRoster(10))

		if report.Total != 10 {
			t.Errorf("total = %d, want 10", report.Total)
		}
		if report.Sent != 8 {
			t.Errorf("sent = %d, want 8", report.Sent)
		}
		if len(report.Failures) != 2 {
			t.Fatalf("failures = %d, want 2", len(report.Failures))
		}
		for _, f := range report.Failures {
			if f.ParticipantID != 103 && f.ParticipantID != 107 {
				t.Errorf("unexpected failure for participant %d", f.ParticipantID)
			}
		}
		// The two failing chats were still attempted after the first failure.
		if got := len(messenger.Sent()); got != 8 {
			t.Errorf("messenger recorded %d sends, want 8", got)
		}
	})

	t.Run("no media sends a single text message", func(t *testing.T) {
		messenger := newMockMessenger()
		uc := newDeliveryUnderTest(messenger)

		uc.Deliver(ctx, bot, Body{Text: "plain"}, testRoster(1))

		sent := messenger.sentTo(100)
		if len(sent) != 1 || sent[0].Kind != "text" {
			t.Fatalf("expected one text send, got %+v", sent)
		}
		if sent[0].Text != "plain" {
			t.Errorf("text = %q", sent[0].Text)
		}
	})

	t.Run("one media sends a captioned item with the keyboard attached", func(t *testing.T) {
		messenger := newMockMessenger()
		uc := newDeliveryUnderTest(messenger)

		menu := []*model.MenuEntry{{ID: "m1", BotID: "bot-1", Label: "Site", Kind: model.MenuExternalLink, Target: "https://example.com", Active: true}}
		uc.Deliver(ctx, bot, Body{Text: "caption", MediaURLs: []string{"https://cdn.example.com/a.jpg"}, Menu: menu}, testRoster(1))

		sent := messenger.sentTo(100)
		if len(sent) != 1 || sent[0].Kind != "media" {
			t.Fatalf("expected one media send, got %+v", sent)
		}
		if sent[0].Text != "caption" {
			t.Errorf("caption = %q", sent[0].Text)
		}
		if len(sent[0].Buttons) != 1 {
			t.Errorf("keyboard rows = %d, want 1", len(sent[0].Buttons))
		}
	})

	t.Run("several media send a group plus a separate actions message", func(t *testing.T) {
		messenger := newMockMessenger()
		uc := newDeliveryUnderTest(messenger)

		menu := []*model.MenuEntry{{ID: "m1", BotID: "bot-1", Label: "Site", Kind: model.MenuExternalLink, Target: "https://example.com", Active: true}}
		media := []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg", "https://cdn.example.com/c.mp4"}
		uc.Deliver(ctx, bot, Body{Text: "album caption", MediaURLs: media, Menu: menu}, testRoster(1))

		sent := messenger.sentTo(100)
		if len(sent) != 2 {
			t.Fatalf("expected group + actions sends, got %+v", sent)
		}
		if sent[0].Kind != "media_group" || len(sent[0].MediaURLs) != 3 {
			t.Errorf("first send = %+v, want media_group of 3", sent[0])
		}
		if sent[0].Text != "album caption" {
			t.Errorf("group caption = %q", sent[0].Text)
		}
		if sent[1].Kind != "text" || len(sent[1].Buttons) != 1 {
			t.Errorf("second send = %+v, want actions text with keyboard", sent[1])
		}
		if sent[1].Text != model.DefaultActionsText {
			t.Errorf("actions text = %q", sent[1].Text)
		}
	})

	t.Run("media group without menu skips the actions message", func(t *testing.T) {
		messenger := newMockMessenger()
		uc := newDeliveryUnderTest(messenger)

		media := []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
		uc.Deliver(ctx, bot, Body{Text: "album", MediaURLs: media}, testRoster(1))

		sent := messenger.sentTo(100)
		if len(sent) != 1 || sent[0].Kind != "media_group" {
			t.Fatalf("expected a lone media_group send, got %+v", sent)
		}
	})

	t.Run("keyboard renders one row per entry with the right target", func(t *testing.T) {
		messenger := newMockMessenger()
		uc := newDeliveryUnderTest(messenger)

		menu := []*model.MenuEntry{
			{ID: "m1", BotID: "bot-1", Label: "Site", Kind: model.MenuExternalLink, Target: "https://example.com", Active: true},
			{ID: "m2", BotID: "bot-1", Label: "App", Kind: model.MenuMiniApp, Target: "https://app.example.com", Active: true},
			{ID: "m3", BotID: "bot-1", Label: "Join", Kind: model.MenuGroupInvite, Target: "-100123", Active: true},
		}
		uc.Deliver(ctx, bot, Body{Text: "menu", Menu: menu}, testRoster(1))

		sent := messenger.sentTo(100)
		if len(sent) != 1 {
			t.Fatalf("expected one send, got %+v", sent)
		}
		rows := sent[0].Buttons
		if len(rows) != 3 {
			t.Fatalf("keyboard rows = %d, want 3", len(rows))
		}
		if rows[0][0].URL != "https://example.com" || rows[0][0].WebAppURL != "" {
			t.Errorf("external link row = %+v", rows[0][0])
		}
		if rows[1][0].WebAppURL != "https://app.example.com" || rows[1][0].URL != "" {
			t.Errorf("miniapp row = %+v", rows[1][0])
		}
		if rows[2][0].URL == "" {
			t.Errorf("invite row has no resolved URL: %+v", rows[2][0])
		}
	})

	t.Run("unresolvable invite entry is dropped, the send still goes out", func(t *testing.T) {
		messenger := newMockMessenger()
		messenger.inviteErr = errors.New("provider down")
		uc := newDeliveryUnderTest(messenger)

		menu := []*model.MenuEntry{
			{ID: "m1", BotID: "bot-1", Label: "Site", Kind: model.MenuExternalLink, Target: "https://example.com", Active: true},
			{ID: "m3", BotID: "bot-1", Label: "Join", Kind: model.MenuGroupInvite, Target: "-100123", Active: true},
		}
		report := uc.Deliver(ctx, bot, Body{Text: "menu", Menu: menu}, testRoster(1))

		if report.Sent != 1 {
			t.Fatalf("sent = %d, want 1", report.Sent)
		}
		sent := messenger.sentTo(100)
		if len(sent[0].Buttons) != 1 {
			t.Errorf("keyboard rows = %d, want 1 (invite dropped)", len(sent[0].Buttons))
		}
	})

	t.Run("invite keyboards are minted per recipient", func(t *testing.T) {
		messenger := newMockMessenger()
		uc := newDeliveryUnderTest(messenger)

		menu := []*model.MenuEntry{{ID: "m3", BotID: "bot-1", Label: "Join", Kind: model.MenuGroupInvite, Target: "-100123", Active: true}}
		uc.Deliver(ctx, bot, Body{Text: "menu", Menu: menu}, testRoster(2))

		a := messenger.sentTo(100)[0].Buttons[0][0].URL
		b := messenger.sentTo(101)[0].Buttons[0][0].URL
		if a == b {
			t.Errorf("both recipients got invite %q", a)
		}
	})
}
