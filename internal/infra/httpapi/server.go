// File: internal/infra/httpapi/server.go
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"telegram-look-bot/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the operational surface: liveness and metrics. It carries
// no bot functionality.
type Server struct {
	cfg    *config.Config
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(cfg *config.Config, logger *zerolog.Logger) *Server {
	return &Server{cfg: cfg, log: logger}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Admin.Port),
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info().Int("port", s.cfg.Admin.Port).Msg("admin server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
