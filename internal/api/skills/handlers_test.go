package skills

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Matchpoint/internal/api/authz"
	"github.com/codr1/Matchpoint/internal/db"
	skillsvc "github.com/codr1/Matchpoint/internal/skills"
	"github.com/codr1/Matchpoint/internal/testutil"
)

func setupSkillHandlersTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC))

	store = nil
	storeOnce = sync.Once{}
	InitHandlers(skillsvc.NewStore(database, clock))

	t.Cleanup(func() {
		store = nil
		storeOnce = sync.Once{}
	})

	return database
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: userID}))
}

func TestHandleSkillCreate(t *testing.T) {
	setupSkillHandlersTest(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/skills", strings.NewReader(body)), "alice")
		recorder := httptest.NewRecorder()
		HandleSkillCreate(recorder, req)
		return recorder
	}

	recorder := post(`{"sport":"tennis","skillLevel":"intermediate"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", recorder.Code, recorder.Body.String())
	}
	var skill skillsvc.Skill
	if err := json.Unmarshal(recorder.Body.Bytes(), &skill); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if skill.UserID != "alice" || skill.Sport != "tennis" || skill.SkillLevel != "intermediate" {
		t.Fatalf("unexpected skill: %+v", skill)
	}

	if recorder := post(`{"sport":"tennis","skillLevel":"advanced"}`); recorder.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", recorder.Code)
	}
	if recorder := post(`{"sport":"chess","skillLevel":"advanced"}`); recorder.Code != http.StatusBadRequest {
		t.Fatalf("unknown sport: expected 400, got %d", recorder.Code)
	}
	if recorder := post(`{"sport":"padel","skillLevel":"expert"}`); recorder.Code != http.StatusBadRequest {
		t.Fatalf("unknown level: expected 400, got %d", recorder.Code)
	}
}

func TestHandleSkillsForCurrentUser(t *testing.T) {
	database := setupSkillHandlersTest(t)
	testutil.SeedSkill(t, database, "alice", "tennis", "beginner")
	testutil.SeedSkill(t, database, "alice", "football", "advanced")
	testutil.SeedSkill(t, database, "bob", "padel", "beginner")

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/skills/me", nil), "alice")
	recorder := httptest.NewRecorder()
	HandleSkillsForCurrentUser(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var body skillListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %+v", body.Skills)
	}
	for _, skill := range body.Skills {
		if skill.UserID != "alice" {
			t.Fatalf("leaked skill for %s", skill.UserID)
		}
	}

	recorder = httptest.NewRecorder()
	HandleSkillsForCurrentUser(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/skills/me", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", recorder.Code)
	}
}

func TestHandleSkillUpdate(t *testing.T) {
	database := setupSkillHandlersTest(t)
	skillID := testutil.SeedSkill(t, database, "alice", "tennis", "beginner")

	patch := func(caller, id, body string) *httptest.ResponseRecorder {
		req := asUser(httptest.NewRequest(http.MethodPatch, "/api/v1/skills/"+id, strings.NewReader(body)), caller)
		req.SetPathValue(skillIDParam, id)
		recorder := httptest.NewRecorder()
		HandleSkillUpdate(recorder, req)
		return recorder
	}

	if recorder := patch("bob", skillID, `{"skillLevel":"advanced"}`); recorder.Code != http.StatusForbidden {
		t.Fatalf("other user: expected 403, got %d", recorder.Code)
	}
	if recorder := patch("alice", "missing", `{"skillLevel":"advanced"}`); recorder.Code != http.StatusNotFound {
		t.Fatalf("missing: expected 404, got %d", recorder.Code)
	}

	recorder := patch("alice", skillID, `{"skillLevel":"advanced"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("update: %d %s", recorder.Code, recorder.Body.String())
	}
	var skill skillsvc.Skill
	if err := json.Unmarshal(recorder.Body.Bytes(), &skill); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if skill.SkillLevel != "advanced" {
		t.Fatalf("expected advanced, got %s", skill.SkillLevel)
	}
}
