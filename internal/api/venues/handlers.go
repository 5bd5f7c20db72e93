// internal/api/venues/handlers.go
package venues

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/api/apiutil"
	"github.com/codr1/Matchpoint/internal/bookings"
	venuesvc "github.com/codr1/Matchpoint/internal/venues"
)

const (
	venueQueryTimeout = 5 * time.Second
	venueIDParam      = "id"
)

var (
	catalog  *venuesvc.Catalog
	ledger   *bookings.Ledger
	initOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *venuesvc.Catalog, l *bookings.Ledger) {
	if c == nil || l == nil {
		return
	}
	initOnce.Do(func() {
		catalog = c
		ledger = l
	})
}

type venueListResponse struct {
	Venues []venuesvc.Venue `json:"venues"`
}

// GET /api/v1/venues
func HandleVenueList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if catalog == nil {
		logger.Error().Msg("Venue handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	list, err := catalog.List(ctx, venuesvc.Filter{
		City:  apiutil.QueryValue(r, "city"),
		Sport: apiutil.QueryValue(r, "sport"),
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, venueListResponse{Venues: list}); err != nil {
		logger.Error().Err(err).Msg("Failed to write venue list response")
	}
}

// GET /api/v1/venues/{id}
func HandleVenueDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if catalog == nil {
		logger.Error().Msg("Venue handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := apiutil.PathID(r, venueIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	venue, err := catalog.Get(ctx, venueID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, venue); err != nil {
		logger.Error().Err(err).Str("venue_id", venueID).Msg("Failed to write venue response")
	}
}

// GET /api/v1/venues/{id}/slots?date=YYYY-MM-DD
func HandleVenueSlots(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if catalog == nil || ledger == nil {
		logger.Error().Msg("Venue handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	venueID, err := apiutil.PathID(r, venueIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	date := apiutil.QueryValue(r, "date")
	if err := apiutil.RequireField(date, "date"); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), venueQueryTimeout)
	defer cancel()

	venue, err := catalog.Get(ctx, venueID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	schedule, err := ledger.DaySlots(ctx, venue, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, schedule); err != nil {
		logger.Error().Err(err).Str("venue_id", venueID).Msg("Failed to write slots response")
	}
}
