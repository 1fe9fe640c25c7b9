package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-gatekeeper/internal/domain"
	"telegram-gatekeeper/internal/domain/model"
)

type createBroadcastRequest struct {
	Message      string   `json:"message"`
	MediaURLs    []string `json:"media_urls,omitempty"`
	MenuEntryIDs []string `json:"menu_entry_ids,omitempty"`
	// RFC3339; omit for an immediate broadcast.
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

type broadcastResponse struct {
	JobID        string     `json:"job_id"`
	Mode         string     `json:"mode"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Sent         bool       `json:"sent"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	SentCount    *int       `json:"sent_count,omitempty"`
	Total        *int       `json:"total,omitempty"`
}

func (s *Server) handleCreateBroadcast(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")

	var req createBroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	body := model.BroadcastBody{
		Text:         req.Message,
		MediaURLs:    req.MediaURLs,
		MenuEntryIDs: req.MenuEntryIDs,
	}
	job, report, err := s.broadcasts.CreateJob(r.Context(), botID, body, req.ScheduledFor)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "invalid broadcast")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "bot not found")
		default:
			s.log.Error().Err(err).Str("bot_id", botID).Msg("create broadcast failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	resp := broadcastResponse{
		JobID:        job.ID,
		Mode:         string(job.Mode),
		ScheduledFor: job.ScheduledFor,
		Sent:         report != nil,
	}
	if report != nil {
		resp.SentCount = &report.Sent
		resp.Total = &report.Total
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetBroadcast(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	jobID := chi.URLParam(r, "jobID")

	job, err := s.broadcasts.Find(r.Context(), botID, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "broadcast not found")
			return
		}
		s.log.Error().Err(err).Str("job_id", jobID).Msg("get broadcast failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, broadcastResponse{
		JobID:        job.ID,
		Mode:         string(job.Mode),
		ScheduledFor: job.ScheduledFor,
		Sent:         job.Sent,
		SentAt:       job.SentAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
