// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/api"
	"github.com/codr1/Matchpoint/internal/api/apiutil"
	matchapi "github.com/codr1/Matchpoint/internal/api/matches"
	skillapi "github.com/codr1/Matchpoint/internal/api/skills"
	venueapi "github.com/codr1/Matchpoint/internal/api/venues"
	"github.com/codr1/Matchpoint/internal/config"
)

func newServer(cfg *config.Config, a *app) *http.Server {
	router := http.NewServeMux()

	if cfg.App.JWTSecret == "" {
		log.Warn().Msg("AUTH_JWT_SECRET not set; protected routes will reject every request")
	}

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAuth([]byte(cfg.App.JWTSecret)),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	venueapi.InitHandlers(a.catalog, a.ledger)
	matchapi.InitHandlers(a.matches, a.coordinator)
	skillapi.InitHandlers(a.skills)

	// Register routes
	registerRoutes(router, a, cfg.RateLimit.TrustProxy)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, a *app, trustProxy bool) {
	throttle := api.WithRateLimit(a.limiter, trustProxy)
	protected := func(h http.HandlerFunc) http.Handler {
		return api.RequireAuth(throttle(h))
	}
	protectedRead := func(h http.HandlerFunc) http.Handler {
		return api.RequireAuth(h)
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := a.db.PingContext(r.Context()); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := apiutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write health response")
		}
	})

	// Venues
	mux.HandleFunc("GET /api/v1/venues", venueapi.HandleVenueList)
	mux.HandleFunc("GET /api/v1/venues/{id}", venueapi.HandleVenueDetail)
	mux.HandleFunc("GET /api/v1/venues/{id}/slots", venueapi.HandleVenueSlots)

	// Matches
	mux.Handle("POST /api/v1/matches", protected(matchapi.HandleMatchCreate))
	mux.HandleFunc("GET /api/v1/matches", matchapi.HandleMatchList)
	mux.HandleFunc("GET /api/v1/matches/{id}", matchapi.HandleMatchDetail)
	mux.Handle("PATCH /api/v1/matches/{id}", protected(matchapi.HandleMatchUpdate))
	mux.Handle("POST /api/v1/matches/{id}/cancel", protected(matchapi.HandleMatchCancel))

	// Participation
	mux.Handle("POST /api/v1/matches/{id}/join", protected(matchapi.HandleMatchJoin))
	mux.Handle("DELETE /api/v1/matches/{id}/leave", protected(matchapi.HandleMatchLeave))
	mux.Handle("DELETE /api/v1/matches/{id}/participants/{userId}", protected(matchapi.HandleParticipantRemove))
	mux.HandleFunc("GET /api/v1/matches/{id}/participants", matchapi.HandleParticipantList)

	// Skills
	mux.Handle("POST /api/v1/skills", protected(skillapi.HandleSkillCreate))
	mux.Handle("GET /api/v1/skills/me", protectedRead(skillapi.HandleSkillsForCurrentUser))
	mux.Handle("PATCH /api/v1/skills/{id}", protected(skillapi.HandleSkillUpdate))
}
