package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/usecase"
)

// Server is the single HTTP surface: provider webhooks, the operator API and
// the observability endpoints.
type Server struct {
	broadcasts usecase.BroadcastUseCase
	webhook    http.HandlerFunc
	apiKey     string
	log        *zerolog.Logger
	server     *http.Server
}

func NewServer(broadcasts usecase.BroadcastUseCase, webhook http.HandlerFunc, apiKey string, port int, logger *zerolog.Logger) *Server {
	compLog := logger.With().Str("component", "HTTPServer").Logger()
	s := &Server{
		broadcasts: broadcasts,
		webhook:    webhook,
		apiKey:     apiKey,
		log:        &compLog,
	}
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhook/{botID}", s.webhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware, Timeout(60*time.Second))
		r.Post("/bots/{botID}/broadcasts", s.handleCreateBroadcast)
		r.Get("/bots/{botID}/broadcasts/{jobID}", s.handleGetBroadcast)
	})
	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// authMiddleware provides simple Bearer token authentication for the
// operator API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("operator API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
