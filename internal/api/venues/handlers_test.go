package venues

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Matchpoint/internal/bookings"
	"github.com/codr1/Matchpoint/internal/db"
	"github.com/codr1/Matchpoint/internal/testutil"
	"github.com/codr1/Matchpoint/internal/timezone"
	venuesvc "github.com/codr1/Matchpoint/internal/venues"
)

func setupVenueHandlersTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	tz := timezone.MustNew(timezone.DefaultZone)

	catalog = nil
	ledger = nil
	initOnce = sync.Once{}
	InitHandlers(venuesvc.NewCatalog(database, clock), bookings.NewLedger(database, tz, clock))

	t.Cleanup(func() {
		catalog = nil
		ledger = nil
		initOnce = sync.Once{}
	})

	return database
}

func TestHandleVenueList_Filters(t *testing.T) {
	database := setupVenueHandlersTest(t)
	testutil.SeedVenue(t, database, testutil.VenueSeed{Name: "Arena", City: "Sofia", SportType: "football"})
	testutil.SeedVenue(t, database, testutil.VenueSeed{Name: "Court", City: "Plovdiv", SportType: "tennis", CapacityPlayers: 4})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues?city=Plovdiv", nil)
	recorder := httptest.NewRecorder()
	HandleVenueList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var body venueListResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Venues) != 1 || body.Venues[0].Name != "Court" {
		t.Fatalf("unexpected venues: %+v", body.Venues)
	}
}

func TestHandleVenueDetail_NotFound(t *testing.T) {
	setupVenueHandlersTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues/missing", nil)
	req.SetPathValue(venueIDParam, "missing")
	recorder := httptest.NewRecorder()
	HandleVenueDetail(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestHandleVenueSlots(t *testing.T) {
	database := setupVenueHandlersTest(t)
	venueID := testutil.SeedVenue(t, database, testutil.VenueSeed{})
	testutil.SeedMatch(t, database, testutil.MatchSeed{
		VenueID: venueID,
		StartAt: time.Date(2026, 1, 29, 14, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+venueID+"/slots?date=2026-01-29", nil)
	req.SetPathValue(venueIDParam, venueID)
	recorder := httptest.NewRecorder()
	HandleVenueSlots(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var schedule bookings.DaySchedule
	if err := json.Unmarshal(recorder.Body.Bytes(), &schedule); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(schedule.Slots) != 9 {
		t.Fatalf("expected 9 slots, got %d", len(schedule.Slots))
	}
	occupied := 0
	for _, slot := range schedule.Slots {
		if slot.Status == bookings.SlotOccupied {
			occupied++
			if slot.StartTime != "16:00" {
				t.Fatalf("expected 16:00 occupied, got %s", slot.StartTime)
			}
		}
	}
	if occupied != 1 {
		t.Fatalf("expected 1 occupied slot, got %d", occupied)
	}
}

func TestHandleVenueSlots_RequiresDate(t *testing.T) {
	database := setupVenueHandlersTest(t)
	venueID := testutil.SeedVenue(t, database, testutil.VenueSeed{})

	for _, target := range []string{"/slots", "/slots?date=29-01-2026"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/venues/"+venueID+target, nil)
		req.SetPathValue(venueIDParam, venueID)
		recorder := httptest.NewRecorder()
		HandleVenueSlots(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, recorder.Code)
		}
	}
}
