package matches

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
	"github.com/codr1/Matchpoint/internal/bookings"
	"github.com/codr1/Matchpoint/internal/db"
	"github.com/codr1/Matchpoint/internal/lock"
	matchsvc "github.com/codr1/Matchpoint/internal/matches"
	"github.com/codr1/Matchpoint/internal/participation"
	"github.com/codr1/Matchpoint/internal/skills"
	"github.com/codr1/Matchpoint/internal/testutil"
	"github.com/codr1/Matchpoint/internal/timezone"
)

func setupMatchHandlersTest(t *testing.T) (*db.DB, string) {
	t.Helper()

	database := testutil.NewTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC))
	tz := timezone.MustNew(timezone.DefaultZone)
	locker := lock.NewLocalLocker(lock.Options{WaitTimeout: time.Second})
	ledger := bookings.NewLedger(database, tz, clock)

	service = nil
	coordinator = nil
	initOnce = sync.Once{}
	InitHandlers(
		matchsvc.NewService(database, ledger, tz, clock, locker),
		participation.NewCoordinator(database, locker, skills.NewStore(database, clock), clock),
	)

	t.Cleanup(func() {
		service = nil
		coordinator = nil
		initOnce = sync.Once{}
	})

	return database, testutil.SeedVenue(t, database, testutil.VenueSeed{CapacityPlayers: 2})
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: userID}))
}

func createMatch(t *testing.T, venueID string) matchsvc.View {
	t.Helper()

	body := `{"sport":"football","venueId":"` + venueID + `","date":"2026-01-29","startTime":"16:00","minSkillLevel":"beginner","maxSkillLevel":"intermediate"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/matches", strings.NewReader(body)), "organizer")
	recorder := httptest.NewRecorder()
	HandleMatchCreate(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("create status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var view matchsvc.View
	if err := json.Unmarshal(recorder.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode match: %v", err)
	}
	return view
}

func join(t *testing.T, matchID, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/matches/"+matchID+"/join", strings.NewReader(body)), userID)
	req.SetPathValue(matchIDParam, matchID)
	recorder := httptest.NewRecorder()
	HandleMatchJoin(recorder, req)
	return recorder
}

func TestHandleMatchCreate(t *testing.T) {
	_, venueID := setupMatchHandlersTest(t)

	view := createMatch(t, venueID)

	if view.OrganizerID != "organizer" {
		t.Fatalf("expected organizer from auth context, got %s", view.OrganizerID)
	}
	if !view.StartTime.Equal(time.Date(2026, 1, 29, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected 14:00Z start, got %s", view.StartTime)
	}
	if view.Capacity != 2 || view.Status != matchsvc.StatusOpen {
		t.Fatalf("unexpected match: %+v", view)
	}
}

func TestHandleMatchCreate_Errors(t *testing.T) {
	_, venueID := setupMatchHandlersTest(t)
	createMatch(t, venueID)

	tests := []struct {
		name   string
		user   string
		body   string
		status int
	}{
		{"unauthenticated", "", `{}`, http.StatusUnauthorized},
		{"bad json", "organizer", `{"sport":`, http.StatusBadRequest},
		{"unknown field", "organizer", `{"sport":"football","price":10}`, http.StatusBadRequest},
		{"misaligned start", "organizer", `{"sport":"football","venueId":"` + venueID + `","date":"2026-01-29","startTime":"16:30","minSkillLevel":"beginner","maxSkillLevel":"advanced"}`, http.StatusBadRequest},
		{"unknown venue", "organizer", `{"sport":"football","venueId":"missing","date":"2026-01-29","startTime":"16:00","minSkillLevel":"beginner","maxSkillLevel":"advanced"}`, http.StatusNotFound},
		{"slot taken", "organizer", `{"sport":"football","venueId":"` + venueID + `","date":"2026-01-29","startTime":"16:00","minSkillLevel":"beginner","maxSkillLevel":"advanced"}`, http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/matches", strings.NewReader(tc.body))
			if tc.user != "" {
				req = asUser(req, tc.user)
			}
			recorder := httptest.NewRecorder()
			HandleMatchCreate(recorder, req)

			if recorder.Code != tc.status {
				t.Fatalf("expected %d, got %d body: %s", tc.status, recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestHandleMatchJoin_Lifecycle(t *testing.T) {
	database, venueID := setupMatchHandlersTest(t)
	view := createMatch(t, venueID)
	testutil.SeedSkill(t, database, "alice", "football", "beginner")
	testutil.SeedSkill(t, database, "bob", "football", "intermediate")
	testutil.SeedSkill(t, database, "carol", "football", "intermediate")
	testutil.SeedSkill(t, database, "pro", "football", "advanced")

	if recorder := join(t, view.ID, "alice", `{"team":1}`); recorder.Code != http.StatusCreated {
		t.Fatalf("alice join: %d %s", recorder.Code, recorder.Body.String())
	}
	if recorder := join(t, view.ID, "alice", `{"team":2}`); recorder.Code != http.StatusConflict {
		t.Fatalf("duplicate join: expected 409, got %d", recorder.Code)
	}
	if recorder := join(t, view.ID, "pro", `{"team":2}`); recorder.Code != http.StatusForbidden {
		t.Fatalf("ineligible join: expected 403, got %d", recorder.Code)
	}
	if recorder := join(t, view.ID, "bob", `{}`); recorder.Code != http.StatusBadRequest {
		t.Fatalf("missing team: expected 400, got %d", recorder.Code)
	}
	if recorder := join(t, view.ID, "bob", `{"team":3}`); recorder.Code != http.StatusBadRequest {
		t.Fatalf("bad team: expected 400, got %d", recorder.Code)
	}
	if recorder := join(t, view.ID, "bob", `{"team":2}`); recorder.Code != http.StatusCreated {
		t.Fatalf("bob join: %d %s", recorder.Code, recorder.Body.String())
	}
	if got := testutil.MatchStatus(t, database, view.ID); got != "full" {
		t.Fatalf("expected full after last seat, got %s", got)
	}
	if recorder := join(t, view.ID, "carol", `{"team":1}`); recorder.Code != http.StatusConflict {
		t.Fatalf("join full: expected 409, got %d", recorder.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/"+view.ID+"/participants", nil)
	req.SetPathValue(matchIDParam, view.ID)
	recorder := httptest.NewRecorder()
	HandleParticipantList(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("participants: %d", recorder.Code)
	}
	var list participantsResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode participants: %v", err)
	}
	if len(list.Participants) != 2 || list.Participants[0].UserID != "alice" || list.Participants[1].UserID != "bob" {
		t.Fatalf("unexpected participants: %+v", list.Participants)
	}

	req = asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/matches/"+view.ID+"/leave", nil), "bob")
	req.SetPathValue(matchIDParam, view.ID)
	recorder = httptest.NewRecorder()
	HandleMatchLeave(recorder, req)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("leave: %d %s", recorder.Code, recorder.Body.String())
	}
	if got := testutil.MatchStatus(t, database, view.ID); got != "open" {
		t.Fatalf("expected open after leave, got %s", got)
	}
}

func TestHandleParticipantRemove(t *testing.T) {
	database, venueID := setupMatchHandlersTest(t)
	view := createMatch(t, venueID)
	testutil.SeedParticipation(t, database, view.ID, "alice", 1, time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC))

	remove := func(caller string) int {
		req := asUser(httptest.NewRequest(http.MethodDelete, "/", nil), caller)
		req.SetPathValue(matchIDParam, view.ID)
		req.SetPathValue(userIDParam, "alice")
		recorder := httptest.NewRecorder()
		HandleParticipantRemove(recorder, req)
		return recorder.Code
	}

	if code := remove("alice"); code != http.StatusForbidden {
		t.Fatalf("non-organizer remove: expected 403, got %d", code)
	}
	if code := remove("organizer"); code != http.StatusNoContent {
		t.Fatalf("organizer remove: expected 204, got %d", code)
	}
	if code := remove("organizer"); code != http.StatusNotFound {
		t.Fatalf("second remove: expected 404, got %d", code)
	}
}

func TestHandleMatchUpdateAndCancel(t *testing.T) {
	_, venueID := setupMatchHandlersTest(t)
	view := createMatch(t, venueID)

	patch := func(caller, body string) *httptest.ResponseRecorder {
		req := asUser(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body)), caller)
		req.SetPathValue(matchIDParam, view.ID)
		recorder := httptest.NewRecorder()
		HandleMatchUpdate(recorder, req)
		return recorder
	}

	if recorder := patch("stranger", `{"maxSkillLevel":"advanced"}`); recorder.Code != http.StatusForbidden {
		t.Fatalf("stranger patch: expected 403, got %d", recorder.Code)
	}
	if recorder := patch("organizer", `{"status":"full"}`); recorder.Code != http.StatusBadRequest {
		t.Fatalf("status patch: expected 400, got %d", recorder.Code)
	}
	recorder := patch("organizer", `{"maxSkillLevel":"advanced"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", recorder.Code, recorder.Body.String())
	}
	var updated matchsvc.View
	if err := json.Unmarshal(recorder.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.MaxSkillLevel != "advanced" {
		t.Fatalf("expected advanced max, got %s", updated.MaxSkillLevel)
	}

	req := asUser(httptest.NewRequest(http.MethodPost, "/", nil), "organizer")
	req.SetPathValue(matchIDParam, view.ID)
	recorder = httptest.NewRecorder()
	HandleMatchCancel(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", recorder.Code, recorder.Body.String())
	}
	var canceled matchsvc.View
	if err := json.Unmarshal(recorder.Body.Bytes(), &canceled); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if canceled.Status != matchsvc.StatusCanceled {
		t.Fatalf("expected canceled, got %s", canceled.Status)
	}

	if recorder := join(t, view.ID, "alice", `{"team":1}`); recorder.Code != http.StatusBadRequest {
		t.Fatalf("join canceled: expected 400, got %d", recorder.Code)
	}
}

func TestHandleMatchListAndDetail(t *testing.T) {
	_, venueID := setupMatchHandlersTest(t)
	view := createMatch(t, venueID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches?status=open&venue_id="+venueID, nil)
	recorder := httptest.NewRecorder()
	HandleMatchList(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("list: %d", recorder.Code)
	}
	var list matchListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Matches) != 1 || list.Matches[0].ID != view.ID {
		t.Fatalf("unexpected list: %+v", list.Matches)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/matches?status=pending", nil)
	recorder = httptest.NewRecorder()
	HandleMatchList(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("bad status filter: expected 400, got %d", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/matches/missing", nil)
	req.SetPathValue(matchIDParam, "missing")
	recorder = httptest.NewRecorder()
	HandleMatchDetail(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("missing match: expected 404, got %d", recorder.Code)
	}
}
