package services

import (
	"testing"
	"time"

	"bursary-management-api/models"
)

// boundApplication drives a fresh application through bind so scheduler tests
// start from allocated with a committed amount.
func (f *fixture) boundApplication(t *testing.T, allocationID int, amount float64) *models.BursaryApplication {
	t.Helper()
	app := f.seedPendingAllocation(t, amount, "North College")
	bound, err := f.binder.BindSingle(app.ApplicationID, allocationID, amount, officerActor, "")
	if err != nil {
		t.Fatalf("BindSingle: %v", err)
	}
	return bound
}

func TestScheduleStaysWithinAllocationAmount(t *testing.T) {
	f := newFixture()
	allocation := f.seedTree(t, 5_000_000, 3_000_000, 1_000_000)
	app := f.boundApplication(t, allocation.AllocationID, 800_000)

	first := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)
	entries, err := f.scheduler.Schedule(app.ApplicationID, []ScheduleEntryInput{
		{Amount: 400_000, ScheduledDate: first},
		{Amount: 400_000, ScheduledDate: second},
	}, officerActor)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.EntryRef == "" {
			t.Fatalf("entry without ref: %+v", entry)
		}
		if entry.AllocationID != allocation.AllocationID {
			t.Fatalf("entry allocation = %d", entry.AllocationID)
		}
	}

	// The schedule is full; one more shilling must be refused.
	_, err = f.scheduler.Schedule(app.ApplicationID, []ScheduleEntryInput{
		{Amount: 1, ScheduledDate: second},
	}, officerActor)
	de := wantKind(t, err, ErrScheduleExceedsAllocation)
	if de.Remaining == nil || *de.Remaining != 0 {
		t.Fatalf("expected boundary 0, got %v", de.Remaining)
	}

	if stored, _ := f.store.ListScheduleEntries(app.ApplicationID); len(stored) != 2 {
		t.Fatalf("refused schedule wrote entries: %d", len(stored))
	}
}

func TestScheduleRejectsOversizedBatch(t *testing.T) {
	f := newFixture()
	allocation := f.seedTree(t, 5_000_000, 3_000_000, 1_000_000)
	app := f.boundApplication(t, allocation.AllocationID, 800_000)

	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.scheduler.Schedule(app.ApplicationID, []ScheduleEntryInput{
		{Amount: 500_000, ScheduledDate: date},
		{Amount: 500_000, ScheduledDate: date},
	}, officerActor)
	de := wantKind(t, err, ErrScheduleExceedsAllocation)
	if de.Remaining == nil || *de.Remaining != 800_000 {
		t.Fatalf("expected boundary 800000, got %v", de.Remaining)
	}

	// All-or-nothing: the first entry alone would have fit.
	if stored, _ := f.store.ListScheduleEntries(app.ApplicationID); len(stored) != 0 {
		t.Fatalf("partial schedule written: %d entries", len(stored))
	}
}

func TestScheduleRequiresAllocatedStatus(t *testing.T) {
	f := newFixture()
	f.seedTree(t, 5_000_000, 3_000_000, 1_000_000)
	app := f.seedPendingAllocation(t, 300_000, "North College")

	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.scheduler.Schedule(app.ApplicationID, []ScheduleEntryInput{{Amount: 100_000, ScheduledDate: date}}, officerActor)
	wantKind(t, err, ErrInvalidTransition)
}

func TestExecuteFullPayoutRun(t *testing.T) {
	f := newFixture()
	allocation := f.seedTree(t, 5_000_000, 3_000_000, 1_000_000)
	app := f.boundApplication(t, allocation.AllocationID, 800_000)

	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	entries, err := f.scheduler.Schedule(app.ApplicationID, []ScheduleEntryInput{
		{Amount: 400_000, ScheduledDate: date},
		{Amount: 400_000, ScheduledDate: date.AddDate(0, 4, 0)},
	}, officerActor)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	// Entries cannot execute until the funds officer submits for disbursement.
	_, err = f.scheduler.Execute(entries[0].EntryID, payoutActor)
	wantKind(t, err, ErrInvalidTransition)

	if _, err := f.workflow.Transition(app.ApplicationID, models.StatusPendingDisbursement, officerActor, ""); err != nil {
		t.Fatalf("submit for disbursement: %v", err)
	}

	executed, err := f.scheduler.Execute(entries[0].EntryID, payoutActor)
	if err != nil {
		t.Fatalf("Execute first: %v", err)
	}
	if !executed.Disbursed || executed.DisbursedAt == nil || executed.ExecutedBy == nil || *executed.ExecutedBy != payoutActor.UserID {
		t.Fatalf("execution not recorded: %+v", executed)
	}

	mid, _ := f.store.GetApplication(app.ApplicationID)
	if mid.Status != models.StatusPendingDisbursement || mid.DisbursedAmount != 400_000 {
		t.Fatalf("after first payout: %+v", mid)
	}

	if _, err := f.scheduler.Execute(entries[1].EntryID, payoutActor); err != nil {
		t.Fatalf("Execute second: %v", err)
	}

	final, _ := f.store.GetApplication(app.ApplicationID)
	if final.Status != models.StatusDisbursed || final.DisbursedAmount != 800_000 || final.DisbursedAt == nil {
		t.Fatalf("after last payout: %+v", final)
	}

	updatedAllocation, _ := f.store.GetAllocation(allocation.AllocationID)
	if updatedAllocation.DisbursedAmount != 800_000 {
		t.Fatalf("allocation disbursed = %v", updatedAllocation.DisbursedAmount)
	}
	category, _ := f.store.GetCategory(updatedAllocation.CategoryID)
	if category.DisbursedAmount != 800_000 {
		t.Fatalf("category disbursed = %v", category.DisbursedAmount)
	}
	f.checkConservation(t)

	// A paid entry never pays twice.
	_, err = f.scheduler.Execute(entries[0].EntryID, payoutActor)
	wantKind(t, err, ErrAlreadyDisbursed)
}

func TestExecuteRoleGate(t *testing.T) {
	f := newFixture()
	allocation := f.seedTree(t, 5_000_000, 3_000_000, 1_000_000)
	app := f.boundApplication(t, allocation.AllocationID, 400_000)

	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	entries, err := f.scheduler.Schedule(app.ApplicationID, []ScheduleEntryInput{{Amount: 400_000, ScheduledDate: date}}, officerActor)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := f.workflow.Transition(app.ApplicationID, models.StatusPendingDisbursement, officerActor, ""); err != nil {
		t.Fatalf("submit for disbursement: %v", err)
	}

	_, err = f.scheduler.Execute(entries[0].EntryID, officerActor)
	wantKind(t, err, ErrForbidden)

	entry, _ := f.store.GetScheduleEntry(entries[0].EntryID)
	if entry.Disbursed {
		t.Fatalf("entry executed by wrong role")
	}
	updated, _ := f.store.GetAllocation(allocation.AllocationID)
	if updated.DisbursedAmount != 0 {
		t.Fatalf("ledger mutated by forbidden execute: %+v", updated)
	}
}

func TestDueEntriesExcludesPaidAndFuture(t *testing.T) {
	f := newFixture()
	allocation := f.seedTree(t, 5_000_000, 3_000_000, 1_000_000)
	app := f.boundApplication(t, allocation.AllocationID, 600_000)

	past := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2027, 8, 1, 0, 0, 0, 0, time.UTC)
	entries, err := f.scheduler.Schedule(app.ApplicationID, []ScheduleEntryInput{
		{Amount: 200_000, ScheduledDate: past},
		{Amount: 200_000, ScheduledDate: past.AddDate(0, 0, 7)},
		{Amount: 200_000, ScheduledDate: future},
	}, officerActor)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := f.workflow.Transition(app.ApplicationID, models.StatusPendingDisbursement, officerActor, ""); err != nil {
		t.Fatalf("submit for disbursement: %v", err)
	}
	if _, err := f.scheduler.Execute(entries[0].EntryID, payoutActor); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	asOf := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	due, err := f.scheduler.DueEntries(asOf)
	if err != nil {
		t.Fatalf("DueEntries: %v", err)
	}
	if len(due) != 1 || due[0].EntryID != entries[1].EntryID {
		t.Fatalf("due = %+v", due)
	}
}
