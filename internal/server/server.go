package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorechamp/internal/config"
	"github.com/dukerupert/chorechamp/internal/handler"
	"github.com/dukerupert/chorechamp/internal/household"
	"github.com/dukerupert/chorechamp/internal/middleware"
	"github.com/dukerupert/chorechamp/internal/reminder"
	"github.com/dukerupert/chorechamp/internal/store"
	ws "github.com/dukerupert/chorechamp/internal/websocket"
)

type Server struct {
	hub         *ws.Hub
	state       *household.State
	dispatcher  *reminder.Dispatcher
	householdH  *handler.HouseholdHandler
	memberH     *handler.MemberHandler
	placeH      *handler.PlaceHandler
	choreH      *handler.ChoreHandler
	chatH       *handler.ChatHandler
	rateLimiter *middleware.RateLimiter
	cfg         config.Config
	logger      *slog.Logger
}

// New loads the household from db and wires the handlers. Every state change
// is broadcast to websocket clients.
func New(ctx context.Context, db *sql.DB, cfg config.Config, gen reminder.Generator, logger *slog.Logger, opts ...household.Option) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	opts = append([]household.Option{
		household.WithListener(func(c household.Change) {
			hub.Broadcast(ws.NewMessage(c.Entity, c.Action, c.ID))
		}),
	}, opts...)
	state := household.New(ctx, store.NewCollectionStore(db), logger.With("component", "household"), opts...)

	dispatcher := reminder.NewDispatcher(state, gen, logger.With("component", "reminder"))

	return &Server{
		hub:         hub,
		state:       state,
		dispatcher:  dispatcher,
		householdH:  handler.NewHouseholdHandler(state),
		memberH:     handler.NewMemberHandler(state),
		placeH:      handler.NewPlaceHandler(state),
		choreH:      handler.NewChoreHandler(state, dispatcher, logger.With("component", "chores")),
		chatH:       handler.NewChatHandler(state),
		rateLimiter: middleware.NewRateLimiter(),
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) State() *household.State {
	return s.state
}

func (s *Server) Dispatcher() *reminder.Dispatcher {
	return s.dispatcher
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.cfg.AllowedOrigins))

	// Household
	mux.HandleFunc("GET /api/household", s.householdH.Get)
	mux.HandleFunc("PUT /api/household", s.householdH.Update)

	// Members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/leaderboard", s.memberH.Leaderboard)

	// Places
	mux.HandleFunc("GET /api/places", s.placeH.List)
	mux.HandleFunc("POST /api/places", s.placeH.Create)
	mux.HandleFunc("DELETE /api/places/{id}", s.placeH.Delete)

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/chores/{id}", s.choreH.Get)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("POST /api/chores/{id}/toggle", s.choreH.Toggle)
	mux.HandleFunc("POST /api/chores/{id}/remind", s.rateLimitedHandler(s.choreH.Remind))

	// Chat
	mux.HandleFunc("GET /api/chat", s.chatH.List)
	mux.HandleFunc("POST /api/chat", s.chatH.Create)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// rateLimitedHandler limits h per client IP. Reminders can spend external API
// quota.
func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	limit := s.cfg.RemindLimit
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, limit.Requests, time.Duration(limit.WindowSeconds)*time.Second)
	return rl(h).ServeHTTP
}
