package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/monthly/internal/handler"
	"github.com/dukerupert/monthly/internal/middleware"
	"github.com/dukerupert/monthly/internal/store"
	ws "github.com/dukerupert/monthly/internal/websocket"
	"github.com/dukerupert/monthly/web"
)

// Options configures a Server.
type Options struct {
	Location    *time.Location
	Credentials middleware.Credentials
}

type Server struct {
	hub             *ws.Hub
	eventH          *handler.EventHandler
	templateHandler *handler.TemplateHandler
	rateLimiter     *middleware.RateLimiter
	credentials     middleware.Credentials
	logger          *slog.Logger
}

func New(s store.Store, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	return &Server{
		hub:             hub,
		eventH:          handler.NewEventHandler(s, hub, opts.Location, logger.With("component", "api")),
		templateHandler: handler.NewTemplateHandler(s, hub, opts.Location, logger.With("component", "template")),
		rateLimiter:     middleware.NewRateLimiter(),
		credentials:     opts.Credentials,
		logger:          logger,
	}
}

// Hub returns the websocket hub that receives event change notices.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Read-only routes
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /{$}", s.templateHandler.Page)
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events.ics", s.eventH.ICS)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("GET /api/months/{month}", s.eventH.Month)
	mux.HandleFunc("GET /api/palette", s.eventH.Palette)
	mux.HandleFunc("GET /api/summaries", s.eventH.Summaries)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Mutating routes, behind basic auth when credentials are configured
	protected := middleware.BasicAuth(s.credentials, s.rateLimiter, s.logger.With("component", "auth"))
	mux.Handle("POST /events", protected(http.HandlerFunc(s.templateHandler.Create)))
	mux.Handle("POST /events/{id}", protected(http.HandlerFunc(s.templateHandler.Update)))
	mux.Handle("POST /events/{id}/delete", protected(http.HandlerFunc(s.templateHandler.Delete)))
	mux.Handle("POST /api/events", protected(http.HandlerFunc(s.eventH.Create)))
	mux.Handle("PUT /api/events/{id}", protected(http.HandlerFunc(s.eventH.Update)))
	mux.Handle("DELETE /api/events/{id}", protected(http.HandlerFunc(s.eventH.Delete)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}
