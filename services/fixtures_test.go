package services

import (
	"testing"
	"time"

	"bursary-management-api/models"
)

var (
	studentActor  = Actor{UserID: 10, Role: models.RoleStudent}
	reviewerActor = Actor{UserID: 20, Role: models.RoleReviewer}
	officerActor  = Actor{UserID: 30, Role: models.RoleFundsOfficer}
	payoutActor   = Actor{UserID: 40, Role: models.RoleDisbursementOfficer}
)

type fixture struct {
	store     *memStore
	ledger    *FundLedgerService
	workflow  *WorkflowEngine
	binder    *AllocationBinder
	scheduler *DisbursementScheduler
}

func newFixture() *fixture {
	store := newMemStore()
	ledger := NewFundLedgerService(store)
	workflow := NewWorkflowEngine(store)
	return &fixture{
		store:     store,
		ledger:    ledger,
		workflow:  workflow,
		binder:    NewAllocationBinder(store, ledger, workflow),
		scheduler: NewDisbursementScheduler(store, ledger, workflow),
	}
}

// seedTree creates float -> category -> allocation through the ledger itself
// so every fixture starts from a conserving state.
func (f *fixture) seedTree(t *testing.T, floatAmount, categoryAmount, allocationAmount float64) *models.FundAllocation {
	t.Helper()
	fl, err := f.ledger.CreateFloat(CreateFloatInput{
		FloatName:    "Main Float",
		FunderName:   "National Treasury",
		AcademicYear: "2026",
		Amount:       floatAmount,
		CreatedBy:    officerActor.UserID,
	})
	if err != nil {
		t.Fatalf("CreateFloat: %v", err)
	}
	category, err := f.ledger.CreateCategory(fl.FloatID, "Bursary", categoryAmount)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	allocation, err := f.ledger.CreateAllocation(category.CategoryID, "undergraduate", allocationAmount)
	if err != nil {
		t.Fatalf("CreateAllocation: %v", err)
	}
	return allocation
}

// seedApplication inserts an application directly in the given status.
func (f *fixture) seedApplication(t *testing.T, status models.ApplicationStatus, requested float64, institution string) *models.BursaryApplication {
	t.Helper()
	now := time.Now()
	number, err := NextApplicationNumber(f.store, now)
	if err != nil {
		t.Fatalf("NextApplicationNumber: %v", err)
	}
	app := &models.BursaryApplication{
		ApplicationNumber: number,
		UserID:            studentActor.UserID,
		Institution:       institution,
		EducationLevel:    "undergraduate",
		Purpose:           "tuition",
		RequestedAmount:   requested,
		Status:            status,
		CreateAt:          &now,
		UpdateAt:          &now,
	}
	if err := f.store.SaveApplication(app); err != nil {
		t.Fatalf("SaveApplication: %v", err)
	}
	return app
}

// seedPendingAllocation inserts an application ready for binding.
func (f *fixture) seedPendingAllocation(t *testing.T, approved float64, institution string) *models.BursaryApplication {
	t.Helper()
	app := f.seedApplication(t, models.StatusPendingAllocation, approved, institution)
	app.ApprovedAmount = &approved
	if err := f.store.SaveApplication(app); err != nil {
		t.Fatalf("SaveApplication: %v", err)
	}
	return app
}

// checkConservation verifies amount == allocated + remaining on every node of
// the fund tree.
func (f *fixture) checkConservation(t *testing.T) {
	t.Helper()
	floats, _ := f.store.ListFloats()
	for _, fl := range floats {
		if fl.Amount != fl.AllocatedAmount+fl.RemainingAmount {
			t.Fatalf("float %d violates conservation: amount=%v allocated=%v remaining=%v",
				fl.FloatID, fl.Amount, fl.AllocatedAmount, fl.RemainingAmount)
		}
	}
	for _, fl := range floats {
		categories, _ := f.store.ListCategoriesByFloat(fl.FloatID)
		for _, category := range categories {
			if category.Amount != category.AllocatedAmount+category.RemainingAmount {
				t.Fatalf("category %d violates conservation: amount=%v allocated=%v remaining=%v",
					category.CategoryID, category.Amount, category.AllocatedAmount, category.RemainingAmount)
			}
		}
	}
	allocations, _ := f.store.ListAllocations()
	for _, allocation := range allocations {
		if allocation.Amount != allocation.AllocatedAmount+allocation.RemainingAmount {
			t.Fatalf("allocation %d violates conservation: amount=%v allocated=%v remaining=%v",
				allocation.AllocationID, allocation.Amount, allocation.AllocatedAmount, allocation.RemainingAmount)
		}
	}
}

func wantKind(t *testing.T, err error, kind ErrorKind) *DomainError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %q (%v)", kind, got, err)
	}
	de, _ := err.(*DomainError)
	return de
}
