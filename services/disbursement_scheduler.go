package services

import (
	"time"

	"bursary-management-api/models"

	"github.com/google/uuid"
)

// DisbursementScheduler turns a bound allocation into payout entries and
// executes them. Execution stops at "recorded as disbursed"; actual funds
// movement is out of scope.
type DisbursementScheduler struct {
	store    Store
	ledger   *FundLedgerService
	workflow *WorkflowEngine
}

func NewDisbursementScheduler(store Store, ledger *FundLedgerService, workflow *WorkflowEngine) *DisbursementScheduler {
	return &DisbursementScheduler{store: store, ledger: ledger, workflow: workflow}
}

// ScheduleEntryInput is one planned payout.
type ScheduleEntryInput struct {
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

// Schedule creates payout entries against the application's committed
// allocation amount. The sum of all entries, existing and new, must stay
// within that amount.
func (s *DisbursementScheduler) Schedule(applicationID int, inputs []ScheduleEntryInput, actor Actor) ([]models.DisbursementScheduleEntry, error) {
	if len(inputs) == 0 {
		return nil, badInput("no schedule entries given")
	}
	if actor.Role != models.RoleFundsOfficer {
		return nil, forbidden(string(actor.Role), string(models.StatusAllocated), string(models.StatusAllocated))
	}
	for _, input := range inputs {
		if input.Amount <= 0 {
			return nil, badInput("entry amount must be positive")
		}
	}

	var created []models.DisbursementScheduleEntry
	err := s.store.Atomically(func(tx Store) error {
		app, err := tx.GetApplication(applicationID)
		if err != nil {
			return err
		}
		if app.Status != models.StatusAllocated {
			return invalidTransition(string(app.Status), string(models.StatusAllocated))
		}

		existing, err := tx.ListScheduleEntries(applicationID)
		if err != nil {
			return err
		}
		var scheduled float64
		for _, entry := range existing {
			scheduled += entry.Amount
		}
		var requested float64
		for _, input := range inputs {
			requested += input.Amount
		}
		if remaining := app.AllocationAmount - scheduled; requested > remaining {
			return scheduleExceedsAllocation(remaining)
		}

		now := time.Now()
		for _, input := range inputs {
			entry := models.DisbursementScheduleEntry{
				EntryRef:      uuid.NewString(),
				ApplicationID: applicationID,
				AllocationID:  *app.AllocationID,
				Amount:        input.Amount,
				ScheduledDate: input.ScheduledDate,
				CreateAt:      &now,
				UpdateAt:      &now,
			}
			if err := tx.SaveScheduleEntry(&entry); err != nil {
				return err
			}
			created = append(created, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Execute records one entry as disbursed, updates the ledger, and drives the
// application to disbursed once its last entry is paid.
func (s *DisbursementScheduler) Execute(entryID int, actor Actor) (*models.DisbursementScheduleEntry, error) {
	var entry *models.DisbursementScheduleEntry
	err := s.store.Atomically(func(tx Store) error {
		var err error
		entry, err = tx.GetScheduleEntry(entryID)
		if err != nil {
			return err
		}
		if entry.Disbursed {
			return alreadyDisbursed(entry.EntryRef)
		}

		app, err := tx.GetApplication(entry.ApplicationID)
		if err != nil {
			return err
		}
		if app.Status != models.StatusPendingDisbursement {
			return invalidTransition(string(app.Status), string(models.StatusDisbursed))
		}
		if actor.Role != models.RoleDisbursementOfficer {
			return forbidden(string(actor.Role), string(app.Status), string(models.StatusDisbursed))
		}

		if _, err := s.ledger.recordDisbursementTx(tx, entry.AllocationID, entry.Amount); err != nil {
			return err
		}

		now := time.Now()
		entry.Disbursed = true
		entry.DisbursedAt = &now
		entry.ExecutedBy = &actor.UserID
		entry.UpdateAt = &now
		if err := tx.SaveScheduleEntry(entry); err != nil {
			return err
		}

		app.DisbursedAmount += entry.Amount

		entries, err := tx.ListScheduleEntries(entry.ApplicationID)
		if err != nil {
			return err
		}
		allPaid := true
		for _, other := range entries {
			if !other.Disbursed {
				allPaid = false
				break
			}
		}
		if allPaid {
			return s.workflow.applyTransition(tx, app, models.StatusDisbursed, actor, "")
		}
		app.UpdateAt = &now
		return tx.SaveApplication(app)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Entries returns the schedule for one application.
func (s *DisbursementScheduler) Entries(applicationID int) ([]models.DisbursementScheduleEntry, error) {
	return s.store.ListScheduleEntries(applicationID)
}

// DueEntries returns unexecuted entries whose scheduled date has passed.
func (s *DisbursementScheduler) DueEntries(asOf time.Time) ([]models.DisbursementScheduleEntry, error) {
	return s.store.ListDueScheduleEntries(asOf)
}
