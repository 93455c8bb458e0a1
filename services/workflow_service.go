package services

import (
	"time"

	"bursary-management-api/models"
)

// Actor is the identity token supplied by the auth layer. The workflow trusts
// it and never re-derives the role.
type Actor struct {
	UserID int
	Role   models.Role
}

// transitionTable is the single source of truth for the status state machine:
// current status -> target status -> role that owns the edge. An edge missing
// here is an InvalidTransition; a present edge attempted by another role is
// Forbidden.
var transitionTable = map[models.ApplicationStatus]map[models.ApplicationStatus]models.Role{
	models.StatusDraft: {
		models.StatusSubmitted: models.RoleStudent,
	},
	models.StatusSubmitted: {
		models.StatusUnderReview:       models.RoleReviewer,
		models.StatusCorrectionsNeeded: models.RoleReviewer,
		models.StatusRejected:          models.RoleReviewer,
		models.StatusWithdrawn:         models.RoleStudent,
	},
	models.StatusUnderReview: {
		models.StatusCorrectionsNeeded: models.RoleReviewer,
		models.StatusApproved:          models.RoleReviewer,
		models.StatusRejected:          models.RoleReviewer,
		models.StatusWithdrawn:         models.RoleStudent,
	},
	models.StatusCorrectionsNeeded: {
		// Back to submitted, not draft, so prior answers are retained.
		models.StatusSubmitted: models.RoleStudent,
	},
	models.StatusApproved: {
		models.StatusPendingAllocation: models.RoleReviewer,
	},
	models.StatusPendingAllocation: {
		models.StatusAllocated: models.RoleFundsOfficer,
		models.StatusRejected:  models.RoleFundsOfficer,
	},
	models.StatusAllocated: {
		models.StatusPendingDisbursement: models.RoleFundsOfficer,
	},
	models.StatusPendingDisbursement: {
		models.StatusDisbursed: models.RoleDisbursementOfficer,
		models.StatusRejected:  models.RoleDisbursementOfficer,
	},
}

// WorkflowEngine drives applications through the status state machine.
type WorkflowEngine struct {
	store Store
}

func NewWorkflowEngine(store Store) *WorkflowEngine {
	return &WorkflowEngine{store: store}
}

// CanTransition reports whether the edge exists and which role owns it.
func CanTransition(from, to models.ApplicationStatus) (models.Role, bool) {
	edges, ok := transitionTable[from]
	if !ok {
		return "", false
	}
	role, ok := edges[to]
	return role, ok
}

// Transition moves the application to target if the edge exists and actor
// owns it. The whole step runs in one store transaction.
func (e *WorkflowEngine) Transition(applicationID int, target models.ApplicationStatus, actor Actor, comment string) (*models.BursaryApplication, error) {
	var app *models.BursaryApplication
	err := e.store.Atomically(func(tx Store) error {
		var err error
		app, err = tx.GetApplication(applicationID)
		if err != nil {
			return err
		}
		return e.applyTransition(tx, app, target, actor, comment)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Approve sets the approved amount and moves the application to approved in
// one step. The amount is required here so the later forward edge to
// pending-allocation can never fire without it.
func (e *WorkflowEngine) Approve(applicationID int, amount float64, actor Actor, comment string) (*models.BursaryApplication, error) {
	if amount <= 0 {
		return nil, badInput("approved amount must be positive")
	}
	var app *models.BursaryApplication
	err := e.store.Atomically(func(tx Store) error {
		var err error
		app, err = tx.GetApplication(applicationID)
		if err != nil {
			return err
		}
		app.ApprovedAmount = &amount
		return e.applyTransition(tx, app, models.StatusApproved, actor, comment)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// applyTransition validates and applies a single edge against an application
// already loaded (and locked) inside tx. Shared with the binder and the
// scheduler, which drive the workflow from inside their own transactions.
func (e *WorkflowEngine) applyTransition(tx Store, app *models.BursaryApplication, target models.ApplicationStatus, actor Actor, comment string) error {
	required, ok := CanTransition(app.Status, target)
	if !ok {
		return invalidTransition(string(app.Status), string(target))
	}
	if actor.Role != required {
		return forbidden(string(actor.Role), string(app.Status), string(target))
	}
	if app.Status == models.StatusApproved && target == models.StatusPendingAllocation && app.ApprovedAmount == nil {
		return missingApprovedAmount()
	}

	from := app.Status
	now := time.Now()
	app.Status = target
	app.UpdateAt = &now

	switch target {
	case models.StatusSubmitted:
		app.SubmittedAt = &now
	case models.StatusUnderReview:
		app.ReviewedAt = &now
	case models.StatusApproved:
		app.ApprovedAt = &now
	case models.StatusAllocated:
		app.AllocatedAt = &now
	case models.StatusDisbursed:
		app.DisbursedAt = &now
	}
	if target.Terminal() {
		app.ClosedAt = &now
	}
	if comment != "" {
		app.ReviewComment = &comment
	}

	if err := tx.SaveApplication(app); err != nil {
		return err
	}

	history := &models.ApplicationStatusHistory{
		ApplicationID: app.ApplicationID,
		FromStatus:    from,
		ToStatus:      target,
		ActorID:       actor.UserID,
		ActorRole:     actor.Role,
		CreateAt:      now,
	}
	if comment != "" {
		history.Comment = &comment
	}
	return tx.AppendStatusHistory(history)
}

// History returns the transition log for an application.
func (e *WorkflowEngine) History(applicationID int) ([]models.ApplicationStatusHistory, error) {
	return e.store.ListStatusHistory(applicationID)
}
