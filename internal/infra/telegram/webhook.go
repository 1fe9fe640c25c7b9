package telegram

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/application"
	"telegram-gatekeeper/internal/domain/model"
	"telegram-gatekeeper/internal/infra/worker"
)

// WebhookHandler receives provider updates. The bot identity rides on the
// route, the update body is standard Bot API JSON. The provider is always
// answered 200 right away; processing happens on the worker pool so a slow
// store never makes the provider re-deliver.
type WebhookHandler struct {
	gateway *application.Gateway
	pool    *worker.Pool
	log     *zerolog.Logger
}

func NewWebhookHandler(gateway *application.Gateway, pool *worker.Pool, logger *zerolog.Logger) *WebhookHandler {
	compLog := logger.With().Str("component", "Webhook").Logger()
	return &WebhookHandler{gateway: gateway, pool: pool, log: &compLog}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	if botID == "" {
		http.Error(w, "missing bot id", http.StatusBadRequest)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad update payload", http.StatusBadRequest)
		return
	}

	if ev, ok := eventFromUpdate(update); ok {
		if err := h.pool.Submit(h.task(botID, ev)); err != nil {
			h.log.Warn().Err(err).Str("bot_id", botID).Msg("update dropped, worker pool saturated")
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) task(botID string, ev application.InboundEvent) worker.Task {
	return func(ctx context.Context) error {
		if err := h.gateway.HandleEvent(ctx, botID, ev); err != nil {
			h.log.Error().Err(err).Str("bot_id", botID).Int64("update_id", ev.UpdateID).Msg("update processing failed")
		}
		return nil
	}
}

// eventFromUpdate reduces a provider update to the fields the gate consumes.
// Non-message updates and messages without text are ignored.
func eventFromUpdate(update tgbotapi.Update) (application.InboundEvent, bool) {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.From == nil {
		return application.InboundEvent{}, false
	}
	return application.InboundEvent{
		UpdateID: int64(update.UpdateID),
		ChatID:   msg.Chat.ID,
		Text:     msg.Text,
		Profile: model.Profile{
			ParticipantID: msg.From.ID,
			FirstName:     msg.From.FirstName,
			LastName:      msg.From.LastName,
			Username:      msg.From.UserName,
			LanguageCode:  msg.From.LanguageCode,
		},
	}, true
}
