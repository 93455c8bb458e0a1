package services

import (
	"fmt"
	"sort"

	"bursary-management-api/models"
)

// AllocationBinder couples an application's funding need to a fund
// allocation's remaining balance. Binding and the status transition to
// allocated commit in the same transaction.
type AllocationBinder struct {
	store    Store
	ledger   *FundLedgerService
	workflow *WorkflowEngine
}

func NewAllocationBinder(store Store, ledger *FundLedgerService, workflow *WorkflowEngine) *AllocationBinder {
	return &AllocationBinder{store: store, ledger: ledger, workflow: workflow}
}

// BindSingle reserves amount from the allocation for one application and
// drives it to allocated.
func (b *AllocationBinder) BindSingle(applicationID, allocationID int, amount float64, actor Actor, comment string) (*models.BursaryApplication, error) {
	if amount <= 0 {
		return nil, badInput("binding amount must be positive")
	}
	var app *models.BursaryApplication
	err := b.store.Atomically(func(tx Store) error {
		var err error
		app, err = tx.GetApplication(applicationID)
		if err != nil {
			return err
		}
		if app.Status != models.StatusPendingAllocation {
			return invalidTransition(string(app.Status), string(models.StatusAllocated))
		}
		if _, err := b.ledger.recordAllocationTx(tx, allocationID, amount); err != nil {
			return err
		}
		app.AllocationAmount = amount
		app.AllocationID = &allocationID
		return b.workflow.applyTransition(tx, app, models.StatusAllocated, actor, comment)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// InstitutionGroup is one institution's slice of a batch bind.
type InstitutionGroup struct {
	Institution  string                      `json:"institution"`
	Applications []models.BursaryApplication `json:"applications"`
	Subtotal     float64                     `json:"subtotal"`
}

// BatchBindResult reports a committed batch grouped by institution.
type BatchBindResult struct {
	AllocationID int                `json:"allocation_id"`
	TotalAmount  float64            `json:"total_amount"`
	Institutions []InstitutionGroup `json:"institutions"`
}

// BindBatch binds every selected application at its approved amount, or none
// of them. The sum check and the deduction happen inside one transaction, so
// a concurrent bind cannot slip between them.
func (b *AllocationBinder) BindBatch(applicationIDs []int, allocationID int, actor Actor) (*BatchBindResult, error) {
	if len(applicationIDs) == 0 {
		return nil, badInput("no applications selected")
	}
	// A repeated ID would debit the allocation once per occurrence while the
	// application binds only once, stranding the difference.
	seen := make(map[int]struct{}, len(applicationIDs))
	for _, id := range applicationIDs {
		if _, dup := seen[id]; dup {
			return nil, badInput(fmt.Sprintf("application %d selected more than once", id))
		}
		seen[id] = struct{}{}
	}
	result := &BatchBindResult{AllocationID: allocationID}
	err := b.store.Atomically(func(tx Store) error {
		apps := make([]*models.BursaryApplication, 0, len(applicationIDs))
		var total float64
		for _, id := range applicationIDs {
			app, err := tx.GetApplication(id)
			if err != nil {
				return err
			}
			if app.Status != models.StatusPendingAllocation {
				return invalidTransition(string(app.Status), string(models.StatusAllocated))
			}
			if app.ApprovedAmount == nil {
				return missingApprovedAmount()
			}
			apps = append(apps, app)
			total += *app.ApprovedAmount
		}

		// One deduction for the whole batch; recordAllocationTx rejects the
		// sum against the remaining balance before anything is written.
		if _, err := b.ledger.recordAllocationTx(tx, allocationID, total); err != nil {
			return err
		}

		byInstitution := make(map[string][]models.BursaryApplication)
		for _, app := range apps {
			amount := *app.ApprovedAmount
			app.AllocationAmount = amount
			app.AllocationID = &allocationID
			comment := fmt.Sprintf("batch bound to allocation %d", allocationID)
			if err := b.workflow.applyTransition(tx, app, models.StatusAllocated, actor, comment); err != nil {
				return err
			}
			byInstitution[app.Institution] = append(byInstitution[app.Institution], *app)
		}

		names := make([]string, 0, len(byInstitution))
		for name := range byInstitution {
			names = append(names, name)
		}
		sort.Strings(names)

		result.TotalAmount = total
		for _, name := range names {
			group := InstitutionGroup{Institution: name, Applications: byInstitution[name]}
			for _, app := range group.Applications {
				group.Subtotal += app.AllocationAmount
			}
			result.Institutions = append(result.Institutions, group)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
