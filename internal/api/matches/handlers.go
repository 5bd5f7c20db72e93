// internal/api/matches/handlers.go
package matches

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/api/apiutil"
	matchsvc "github.com/codr1/Matchpoint/internal/matches"
	"github.com/codr1/Matchpoint/internal/participation"
)

const (
	// Locked operations wait up to the configured lock timeout, so they
	// get a longer budget than plain reads.
	matchQueryTimeout = 5 * time.Second
	matchWriteTimeout = 15 * time.Second
	matchIDParam      = "id"
	userIDParam       = "userId"
)

var (
	service     *matchsvc.Service
	coordinator *participation.Coordinator
	initOnce    sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *matchsvc.Service, c *participation.Coordinator) {
	if s == nil || c == nil {
		return
	}
	initOnce.Do(func() {
		service = s
		coordinator = c
	})
}

type createMatchRequest struct {
	Sport         string `json:"sport"`
	VenueID       string `json:"venueId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	MinSkillLevel string `json:"minSkillLevel"`
	MaxSkillLevel string `json:"maxSkillLevel"`
	Format        string `json:"format"`
}

type updateMatchRequest struct {
	MinSkillLevel *string `json:"minSkillLevel"`
	MaxSkillLevel *string `json:"maxSkillLevel"`
	Status        *string `json:"status"`
}

type joinMatchRequest struct {
	Team *int `json:"team"`
}

type matchListResponse struct {
	Matches []matchsvc.View `json:"matches"`
}

type participantsResponse struct {
	MatchID      string                      `json:"matchId"`
	Participants []participation.Participant `json:"participants"`
}

func initialized(w http.ResponseWriter, r *http.Request) bool {
	if service == nil || coordinator == nil {
		log.Ctx(r.Context()).Error().Msg("Match handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

func writeResponse(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write match response")
	}
}

// POST /api/v1/matches
func HandleMatchCreate(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	var req createMatchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchWriteTimeout)
	defer cancel()

	view, err := service.CreateMatch(ctx, matchsvc.CreateParams{
		OrganizerID: user.ID,
		Sport:       req.Sport,
		VenueID:     req.VenueID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		MinSkill:    req.MinSkillLevel,
		MaxSkill:    req.MaxSkillLevel,
		Format:      req.Format,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusCreated, view)
}

// GET /api/v1/matches?sport=&status=&venue_id=
func HandleMatchList(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	list, err := service.ListMatches(ctx, matchsvc.Filter{
		Sport:   apiutil.QueryValue(r, "sport"),
		Status:  apiutil.QueryValue(r, "status"),
		VenueID: apiutil.QueryValue(r, "venue_id"),
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, matchListResponse{Matches: list})
}

// GET /api/v1/matches/{id}
func HandleMatchDetail(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	matchID, err := apiutil.PathID(r, matchIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	view, err := service.GetMatch(ctx, matchID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, view)
}

// PATCH /api/v1/matches/{id}
func HandleMatchUpdate(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	matchID, err := apiutil.PathID(r, matchIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req updateMatchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchWriteTimeout)
	defer cancel()

	view, err := service.UpdateMatch(ctx, matchID, user.ID, matchsvc.Patch{
		MinSkillLevel: req.MinSkillLevel,
		MaxSkillLevel: req.MaxSkillLevel,
		Status:        req.Status,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, view)
}

// POST /api/v1/matches/{id}/cancel
func HandleMatchCancel(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	matchID, err := apiutil.PathID(r, matchIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchWriteTimeout)
	defer cancel()

	view, err := service.CancelMatch(ctx, matchID, user.ID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, view)
}

// POST /api/v1/matches/{id}/join
func HandleMatchJoin(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	matchID, err := apiutil.PathID(r, matchIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req joinMatchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}
	if req.Team == nil {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "team", Reason: "is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchWriteTimeout)
	defer cancel()

	participant, err := coordinator.JoinMatch(ctx, user.ID, matchID, *req.Team)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusCreated, participant)
}

// DELETE /api/v1/matches/{id}/leave
func HandleMatchLeave(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	matchID, err := apiutil.PathID(r, matchIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchWriteTimeout)
	defer cancel()

	if err := coordinator.LeaveMatch(ctx, user.ID, matchID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/matches/{id}/participants/{userId}
func HandleParticipantRemove(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	matchID, err := apiutil.PathID(r, matchIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	targetID, err := apiutil.PathID(r, userIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchWriteTimeout)
	defer cancel()

	if err := coordinator.RemoveParticipant(ctx, user.ID, matchID, targetID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/matches/{id}/participants
func HandleParticipantList(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	matchID, err := apiutil.PathID(r, matchIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	participants, err := coordinator.GetMatchParticipants(ctx, matchID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, participantsResponse{MatchID: matchID, Participants: participants})
}
