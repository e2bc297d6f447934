package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/seating-lobby/internal/hub"
	"github.com/DoyleJ11/seating-lobby/internal/registry"
	"github.com/DoyleJ11/seating-lobby/internal/ws"
)

func SetupRoutes(h *hub.Hub, reg *registry.Registry, opts ws.Options, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/tables", ListTables(h, logger.Named("httpapi")))
	r.Get("/ws", ws.Handler(h, reg, opts, logger))
	return r
}
