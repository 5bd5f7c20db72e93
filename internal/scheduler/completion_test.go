package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Matchpoint/internal/testutil"
)

var bookedStart = time.Date(2026, 1, 29, 14, 0, 0, 0, time.UTC)

func TestCompleteEndedMatches_Idempotent(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	venueID := testutil.SeedVenue(t, database, testutil.VenueSeed{})

	ended := testutil.SeedMatch(t, database, testutil.MatchSeed{VenueID: venueID, StartAt: bookedStart})
	full := testutil.SeedMatch(t, database, testutil.MatchSeed{VenueID: venueID, StartAt: bookedStart.Add(time.Hour), Status: "full"})
	running := testutil.SeedMatch(t, database, testutil.MatchSeed{VenueID: venueID, StartAt: bookedStart.Add(2 * time.Hour)})

	// The first two bookings have ended; the third ends an hour later.
	now := bookedStart.Add(2*time.Hour + 30*time.Minute)

	completed, err := CompleteEndedMatches(ctx, database, now)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if completed != 2 {
		t.Fatalf("expected 2 completed, got %d", completed)
	}

	again, err := CompleteEndedMatches(ctx, database, now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected second sweep to change nothing, got %d", again)
	}

	for id, want := range map[string]string{ended: "completed", full: "completed", running: "open"} {
		if got := testutil.MatchStatus(t, database, id); got != want {
			t.Fatalf("match %s: status %s want %s", id, got, want)
		}
	}
}

func TestCompleteEndedMatches_BoundaryIsInclusive(t *testing.T) {
	database := testutil.NewTestDB(t)
	venueID := testutil.SeedVenue(t, database, testutil.VenueSeed{})
	matchID := testutil.SeedMatch(t, database, testutil.MatchSeed{VenueID: venueID, StartAt: bookedStart})

	completed, err := CompleteEndedMatches(context.Background(), database, bookedStart.Add(time.Hour-time.Second))
	if err != nil || completed != 0 {
		t.Fatalf("before end: completed=%d err=%v", completed, err)
	}
	completed, err = CompleteEndedMatches(context.Background(), database, bookedStart.Add(time.Hour))
	if err != nil || completed != 1 {
		t.Fatalf("at end: completed=%d err=%v", completed, err)
	}
	if got := testutil.MatchStatus(t, database, matchID); got != "completed" {
		t.Fatalf("status %s", got)
	}
}

func TestCompleteEndedMatches_SkipsCanceled(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	venueID := testutil.SeedVenue(t, database, testutil.VenueSeed{})

	canceled := testutil.SeedMatch(t, database, testutil.MatchSeed{VenueID: venueID, StartAt: bookedStart, Status: "canceled"})
	// A canceled match that still owns a booking is excluded by status too.
	orphaned := testutil.SeedMatch(t, database, testutil.MatchSeed{VenueID: venueID, StartAt: bookedStart.Add(time.Hour)})
	if _, err := database.Exec("UPDATE matches SET status = 'canceled' WHERE id = ?", orphaned); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	completed, err := CompleteEndedMatches(ctx, database, bookedStart.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if completed != 0 {
		t.Fatalf("expected no completions, got %d", completed)
	}
	for _, id := range []string{canceled, orphaned} {
		if got := testutil.MatchStatus(t, database, id); got != "canceled" {
			t.Fatalf("match %s: status %s", id, got)
		}
	}
}

func TestCompleteEndedMatches_NoRowsIsNotAnError(t *testing.T) {
	database := testutil.NewTestDB(t)
	completed, err := CompleteEndedMatches(context.Background(), database, time.Now())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if completed != 0 {
		t.Fatalf("expected 0, got %d", completed)
	}
	if _, err := CompleteEndedMatches(context.Background(), nil, time.Now()); err == nil {
		t.Fatalf("expected error without database")
	}
}

func TestRegisterMatchCompletionJob_RunsSweep(t *testing.T) {
	database := testutil.NewTestDB(t)
	venueID := testutil.SeedVenue(t, database, testutil.VenueSeed{})
	matchID := testutil.SeedMatch(t, database, testutil.MatchSeed{VenueID: venueID, StartAt: bookedStart})

	clock := clockwork.NewFakeClockAt(bookedStart.Add(2 * time.Hour))
	svc, err := NewService(Options{Clock: clock, Location: time.UTC})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop() })

	job, err := svc.RegisterMatchCompletionJob(database, clock, "* * * * *")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if job.Name() != MatchCompletionJobName {
		t.Fatalf("job name %q", job.Name())
	}

	svc.Start()
	if err := job.RunNow(); err != nil {
		t.Fatalf("run now: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.MatchStatus(t, database, matchID) == "completed" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("sweep did not complete the ended match")
}

func TestAddJob_Validation(t *testing.T) {
	svc, err := NewService(Options{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop() })

	if _, err := svc.AddJob(" ", "* * * * *", func() {}); err != ErrEmptyJobName {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := svc.AddJob("job", "", func() {}); err != ErrEmptyCronExpr {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := svc.AddJob("job", "not a cron", func() {}); err == nil {
		t.Fatalf("expected invalid cron expression to fail")
	}

	var nilSvc *Service
	if _, err := nilSvc.AddJob("job", "* * * * *", func() {}); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
