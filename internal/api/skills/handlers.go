// internal/api/skills/handlers.go
package skills

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/api/apiutil"
	skillsvc "github.com/codr1/Matchpoint/internal/skills"
)

const (
	skillQueryTimeout = 5 * time.Second
	skillIDParam      = "id"
)

var (
	store     *skillsvc.Store
	storeOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *skillsvc.Store) {
	if s == nil {
		return
	}
	storeOnce.Do(func() {
		store = s
	})
}

type createSkillRequest struct {
	Sport      string `json:"sport"`
	SkillLevel string `json:"skillLevel"`
}

type updateSkillRequest struct {
	SkillLevel string `json:"skillLevel"`
}

type skillListResponse struct {
	Skills []skillsvc.Skill `json:"skills"`
}

// POST /api/v1/skills
func HandleSkillCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if store == nil {
		logger.Error().Msg("Skill handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	var req createSkillRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), skillQueryTimeout)
	defer cancel()

	skill, err := store.Create(ctx, user.ID, req.Sport, req.SkillLevel)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, skill); err != nil {
		logger.Error().Err(err).Msg("Failed to write skill response")
	}
}

// GET /api/v1/skills/me
func HandleSkillsForCurrentUser(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if store == nil {
		logger.Error().Msg("Skill handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), skillQueryTimeout)
	defer cancel()

	list, err := store.ListForUser(ctx, user.ID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, skillListResponse{Skills: list}); err != nil {
		logger.Error().Err(err).Msg("Failed to write skills response")
	}
}

// PATCH /api/v1/skills/{id}
func HandleSkillUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if store == nil {
		logger.Error().Msg("Skill handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	user, ok := apiutil.RequireUser(w, r)
	if !ok {
		return
	}
	skillID, err := apiutil.PathID(r, skillIDParam)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req updateSkillRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), skillQueryTimeout)
	defer cancel()

	skill, err := store.Update(ctx, user.ID, skillID, req.SkillLevel)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, skill); err != nil {
		logger.Error().Err(err).Str("skill_id", skillID).Msg("Failed to write skill response")
	}
}
