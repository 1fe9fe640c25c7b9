// File: internal/infra/telegram/webhook_test.go
package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-gatekeeper/internal/domain/ports/adapter"
)

func TestEventFromUpdate(t *testing.T) {
	t.Run("text message maps to an inbound event", func(t *testing.T) {
		update := tgbotapi.Update{
			UpdateID: 42,
			Message: &tgbotapi.Message{
				Text: "/start",
				Chat: &tgbotapi.Chat{ID: 101},
				From: &tgbotapi.User{ID: 101, FirstName: "Alice", UserName: "alice", LanguageCode: "en"},
			},
		}
		ev, ok := eventFromUpdate(update)
		if !ok {
			t.Fatal("update was dropped")
		}
		if ev.UpdateID != 42 || ev.ChatID != 101 || ev.Text != "/start" {
			t.Errorf("event = %+v", ev)
		}
		if ev.Profile.FirstName != "Alice" || ev.Profile.Username != "alice" {
			t.Errorf("profile = %+v", ev.Profile)
		}
	})

	t.Run("non-message updates are dropped", func(t *testing.T) {
		if _, ok := eventFromUpdate(tgbotapi.Update{UpdateID: 1}); ok {
			t.Error("empty update was not dropped")
		}
	})

	t.Run("messages without text are dropped", func(t *testing.T) {
		update := tgbotapi.Update{
			UpdateID: 2,
			Message: &tgbotapi.Message{
				Chat: &tgbotapi.Chat{ID: 101},
				From: &tgbotapi.User{ID: 101},
			},
		}
		if _, ok := eventFromUpdate(update); ok {
			t.Error("textless message was not dropped")
		}
	})

	t.Run("messages without a sender are dropped", func(t *testing.T) {
		update := tgbotapi.Update{
			UpdateID: 3,
			Message: &tgbotapi.Message{
				Text: "hello",
				Chat: &tgbotapi.Chat{ID: 101},
			},
		}
		if _, ok := eventFromUpdate(update); ok {
			t.Error("senderless message was not dropped")
		}
	})
}

func TestChatConfig(t *testing.T) {
	if cfg := chatConfig("-1001234567890"); cfg.ChatID != -1001234567890 {
		t.Errorf("numeric target: %+v", cfg)
	}
	if cfg := chatConfig("@mygroup"); cfg.SuperGroupUsername != "@mygroup" || cfg.ChatID != 0 {
		t.Errorf("handle target: %+v", cfg)
	}
}

func TestIsVideoURL(t *testing.T) {
	videos := []string{
		"https://cdn.example.com/clip.mp4",
		"https://cdn.example.com/CLIP.MP4",
		"https://cdn.example.com/clip.webm",
		"https://cdn.example.com/clip.mov",
	}
	for _, u := range videos {
		if !isVideoURL(u) {
			t.Errorf("isVideoURL(%q) = false", u)
		}
	}
	photos := []string{
		"https://cdn.example.com/pic.jpg",
		"https://cdn.example.com/pic.png",
		"https://cdn.example.com/mp4.jpg",
	}
	for _, u := range photos {
		if isVideoURL(u) {
			t.Errorf("isVideoURL(%q) = true", u)
		}
	}
}

func TestKeyboard(t *testing.T) {
	t.Run("empty menu yields no markup", func(t *testing.T) {
		if _, ok := keyboard(nil); ok {
			t.Error("empty keyboard reported present")
		}
	})

	t.Run("url and webapp buttons", func(t *testing.T) {
		markup, ok := keyboard([][]adapter.InlineButton{
			{{Label: "Site", URL: "https://example.com"}},
			{{Label: "App", WebAppURL: "https://app.example.com"}},
		})
		if !ok {
			t.Fatal("keyboard missing")
		}
		if len(markup.InlineKeyboard) != 2 {
			t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
		}
		first := markup.InlineKeyboard[0][0]
		if first.URL == nil || *first.URL != "https://example.com" {
			t.Errorf("url button = %+v", first)
		}
		second := markup.InlineKeyboard[1][0]
		if second.WebApp == nil || second.WebApp.URL != "https://app.example.com" {
			t.Errorf("webapp button = %+v", second)
		}
	})
}
