package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

func seedRecurringJob(t *testing.T, repo *stubJobRepo, id, rule string, start time.Time) *domain.Job {
	t.Helper()
	job := &domain.Job{
		ID:             id,
		CustomerID:     "cust-1",
		Title:          "Recurring visit",
		Status:         domain.JobScheduled,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
		Recurrence:     &domain.Recurrence{RRule: rule},
	}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func TestRegenerate_ExpandsRuleWithinHorizon(t *testing.T) {
	jobRepo := newStubJobRepo()
	occRepo := newStubOccurrenceRepo()
	svc := NewScheduleService(jobRepo, occRepo, 90, zerolog.Nop())

	start := time.Date(2024, 6, 3, 13, 0, 0, 0, time.UTC)
	job := seedRecurringJob(t, jobRepo, "job-1", "FREQ=DAILY;COUNT=10", start)

	if err := svc.Regenerate(context.Background(), ports.RegenerateInput{JobID: job.ID}); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	// COUNT=10 with a start well in the past expands fully.
	if n := occRepo.count(job.ID); n != 10 {
		t.Errorf("occurrences = %d, want 10", n)
	}

	occs, err := occRepo.ListInRange(context.Background(), start, start.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("ListInRange: %v", err)
	}
	first := occs[0]
	if !first.Start.Equal(start) {
		t.Errorf("first occurrence start = %v, want %v", first.Start, start)
	}
	if got := first.End.Sub(first.Start); got != time.Hour {
		t.Errorf("occurrence duration = %v, want 1h", got)
	}

	stored, err := jobRepo.FindByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Recurrence.HorizonUntil.IsZero() {
		t.Error("horizon marker not persisted")
	}
}

func TestRegenerate_ClearsOccurrencesWhenRuleRemoved(t *testing.T) {
	jobRepo := newStubJobRepo()
	occRepo := newStubOccurrenceRepo()
	svc := NewScheduleService(jobRepo, occRepo, 90, zerolog.Nop())

	job := &domain.Job{
		ID:             "job-1",
		CustomerID:     "cust-1",
		Status:         domain.JobScheduled,
		ScheduledStart: time.Now().UTC(),
		ScheduledEnd:   time.Now().UTC().Add(time.Hour),
	}
	if err := jobRepo.Create(context.Background(), job); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	if err := occRepo.InsertMany(context.Background(), []*domain.Occurrence{
		{ID: "stale", JobID: job.ID, Start: job.ScheduledStart, End: job.ScheduledEnd},
	}); err != nil {
		t.Fatalf("seed occurrence: %v", err)
	}

	if err := svc.Regenerate(context.Background(), ports.RegenerateInput{JobID: job.ID}); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if n := occRepo.count(job.ID); n != 0 {
		t.Errorf("occurrences remaining = %d, want 0", n)
	}
}

func TestRegenerate_UnknownJob(t *testing.T) {
	svc := NewScheduleService(newStubJobRepo(), newStubOccurrenceRepo(), 90, zerolog.Nop())

	err := svc.Regenerate(context.Background(), ports.RegenerateInput{JobID: "ghost"})
	if !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestExtendHorizon_SkipsJobsAlreadyCovered(t *testing.T) {
	jobRepo := newStubJobRepo()
	occRepo := newStubOccurrenceRepo()
	svc := NewScheduleService(jobRepo, occRepo, 90, zerolog.Nop())

	covered := seedRecurringJob(t, jobRepo, "covered", "FREQ=DAILY", time.Now().UTC())
	covered.Recurrence.HorizonUntil = time.Now().UTC().AddDate(0, 0, 200)
	if err := jobRepo.Update(context.Background(), covered); err != nil {
		t.Fatalf("update covered job: %v", err)
	}

	stale := seedRecurringJob(t, jobRepo, "stale", "FREQ=WEEKLY", time.Now().UTC().Add(time.Hour))

	result, err := svc.ExtendHorizon(context.Background())
	if err != nil {
		t.Fatalf("ExtendHorizon: %v", err)
	}
	if result.JobsExtended != 1 {
		t.Errorf("JobsExtended = %d, want 1", result.JobsExtended)
	}
	if result.OccurrencesAdded == 0 {
		t.Error("expected occurrences for the stale job")
	}
	if n := occRepo.count(covered.ID); n != 0 {
		t.Errorf("covered job gained %d occurrences, want 0", n)
	}
	if n := occRepo.count(stale.ID); n == 0 {
		t.Error("stale job gained no occurrences")
	}
}

func TestExtendHorizon_BadRuleDoesNotAbortPass(t *testing.T) {
	jobRepo := newStubJobRepo()
	occRepo := newStubOccurrenceRepo()
	svc := NewScheduleService(jobRepo, occRepo, 90, zerolog.Nop())

	// The stub accepts any rule string; expansion fails only at parse time.
	bad := seedRecurringJob(t, jobRepo, "bad", "FREQ=NEVERMIND", time.Now().UTC())
	good := seedRecurringJob(t, jobRepo, "good", "FREQ=DAILY", time.Now().UTC().Add(time.Hour))

	result, err := svc.ExtendHorizon(context.Background())
	if err != nil {
		t.Fatalf("ExtendHorizon: %v", err)
	}
	if result.JobsExtended != 1 {
		t.Errorf("JobsExtended = %d, want 1", result.JobsExtended)
	}
	if n := occRepo.count(bad.ID); n != 0 {
		t.Errorf("bad job gained %d occurrences", n)
	}
	if n := occRepo.count(good.ID); n == 0 {
		t.Error("good job gained no occurrences")
	}
}

func TestRegenerate_CappedExpansionRecordsPartialHorizon(t *testing.T) {
	jobRepo := newStubJobRepo()
	occRepo := newStubOccurrenceRepo()
	svc := NewScheduleService(jobRepo, occRepo, 90, zerolog.Nop())

	// A minutely rule yields far more starts inside 90 days than the
	// per-job cap admits.
	start := time.Now().UTC().Truncate(time.Minute)
	job := seedRecurringJob(t, jobRepo, "dense", "FREQ=MINUTELY", start)

	if err := svc.Regenerate(context.Background(), ports.RegenerateInput{JobID: job.ID}); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if n := occRepo.count(job.ID); n != maxOccurrencesPerJob {
		t.Fatalf("occurrences = %d, want %d", n, maxOccurrencesPerJob)
	}

	stored, err := jobRepo.FindByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	fullHorizon := time.Now().UTC().AddDate(0, 0, 90)
	if !stored.Recurrence.HorizonUntil.Before(fullHorizon) {
		t.Fatalf("HorizonUntil = %v claims coverage of the full window despite the cap", stored.Recurrence.HorizonUntil)
	}

	occs, err := occRepo.ListInRange(context.Background(), start, fullHorizon)
	if err != nil {
		t.Fatalf("ListInRange: %v", err)
	}
	last := occs[len(occs)-1]
	if !stored.Recurrence.HorizonUntil.Equal(last.Start) {
		t.Errorf("HorizonUntil = %v, want last materialized start %v", stored.Recurrence.HorizonUntil, last.Start)
	}
}

func TestExtendHorizon_ResumesAfterCappedExpansion(t *testing.T) {
	jobRepo := newStubJobRepo()
	occRepo := newStubOccurrenceRepo()
	svc := NewScheduleService(jobRepo, occRepo, 90, zerolog.Nop())

	start := time.Now().UTC().Truncate(time.Minute)
	job := seedRecurringJob(t, jobRepo, "dense", "FREQ=MINUTELY", start)

	if err := svc.Regenerate(context.Background(), ports.RegenerateInput{JobID: job.ID}); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	result, err := svc.ExtendHorizon(context.Background())
	if err != nil {
		t.Fatalf("ExtendHorizon: %v", err)
	}
	if result.JobsExtended != 1 {
		t.Errorf("JobsExtended = %d, want 1", result.JobsExtended)
	}
	if result.OccurrencesAdded == 0 {
		t.Fatal("capped job was treated as fully covered")
	}
	if n := occRepo.count(job.ID); n != 2*maxOccurrencesPerJob {
		t.Errorf("occurrences = %d, want %d", n, 2*maxOccurrencesPerJob)
	}

	// The second batch continues one minute after the first, with no gap
	// and no duplicate at the seam.
	occs, err := occRepo.ListInRange(context.Background(), start, time.Now().UTC().AddDate(0, 0, 90))
	if err != nil {
		t.Fatalf("ListInRange: %v", err)
	}
	for i := 1; i < len(occs); i++ {
		if !occs[i].Start.Equal(occs[i-1].Start.Add(time.Minute)) {
			t.Fatalf("starts not contiguous at %d: %v then %v", i-1, occs[i-1].Start, occs[i].Start)
		}
	}
}

func TestCalendar_JoinsSingleJobsAndOccurrences(t *testing.T) {
	jobRepo := newStubJobRepo()
	occRepo := newStubOccurrenceRepo()
	svc := NewScheduleService(jobRepo, occRepo, 90, zerolog.Nop())

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC)

	single := &domain.Job{
		ID:             "single",
		CustomerID:     "cust-1",
		Title:          "One-off repair",
		Status:         domain.JobScheduled,
		ScheduledStart: time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC),
		ScheduledEnd:   time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC),
	}
	if err := jobRepo.Create(context.Background(), single); err != nil {
		t.Fatalf("seed single job: %v", err)
	}

	recurring := seedRecurringJob(t, jobRepo, "weekly", "FREQ=WEEKLY;BYDAY=MO", time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	if err := occRepo.InsertMany(context.Background(), []*domain.Occurrence{
		{ID: "o1", JobID: recurring.ID, Start: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), End: time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)},
		{ID: "o2", JobID: recurring.ID, Start: time.Date(2024, 6, 17, 9, 0, 0, 0, time.UTC), End: time.Date(2024, 6, 17, 10, 0, 0, 0, time.UTC)},
	}); err != nil {
		t.Fatalf("seed occurrences: %v", err)
	}

	entries, err := svc.Calendar(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3 (1 single + 2 occurrences)", len(entries))
	}

	var singles, recurrents int
	for _, e := range entries {
		if e.Recurring {
			recurrents++
			if e.JobID != recurring.ID {
				t.Errorf("recurring entry job = %s, want %s", e.JobID, recurring.ID)
			}
		} else {
			singles++
			if e.Start != "2024-06-10T14:00:00Z" {
				t.Errorf("single entry start = %q, want 2024-06-10T14:00:00Z", e.Start)
			}
		}
		if !strings.HasSuffix(e.Start, "Z") {
			t.Errorf("calendar string %q not UTC", e.Start)
		}
	}
	if singles != 1 || recurrents != 2 {
		t.Errorf("singles = %d recurrents = %d, want 1 and 2", singles, recurrents)
	}
}

func TestCalendar_OrphanedOccurrenceSkipped(t *testing.T) {
	jobRepo := newStubJobRepo()
	occRepo := newStubOccurrenceRepo()
	svc := NewScheduleService(jobRepo, occRepo, 90, zerolog.Nop())

	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	if err := occRepo.InsertMany(context.Background(), []*domain.Occurrence{
		{ID: "orphan", JobID: "deleted-job", Start: start, End: start.Add(time.Hour)},
	}); err != nil {
		t.Fatalf("seed occurrence: %v", err)
	}

	entries, err := svc.Calendar(context.Background(), start.AddDate(0, 0, -1), start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
