// Package server exposes the HTTP ingress and REST surface of the service.
package server

import (
	"log/slog"

	"github.com/groblegark/sessionlog/internal/dispatch"
	"github.com/groblegark/sessionlog/internal/session"
	"github.com/groblegark/sessionlog/internal/store"
)

// Server handles the request-sourced ingress plus the supporting REST
// endpoints (session reads, REST flush, health).
type Server struct {
	dispatcher *dispatch.Dispatcher
	engine     *session.Engine
	store      store.Store
	logger     *slog.Logger
}

// New returns a Server wired to the given dispatcher, engine and store.
func New(d *dispatch.Dispatcher, e *session.Engine, s store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		dispatcher: d,
		engine:     e,
		store:      s,
		logger:     logger,
	}
}
