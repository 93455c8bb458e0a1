package services

import (
	"testing"

	"bursary-management-api/models"
)

func TestDraftCannotSkipToUnderReview(t *testing.T) {
	f := newFixture()
	app := f.seedApplication(t, models.StatusDraft, 100_000, "North College")

	_, err := f.workflow.Transition(app.ApplicationID, models.StatusUnderReview, reviewerActor, "")
	wantKind(t, err, ErrInvalidTransition)

	unchanged, _ := f.store.GetApplication(app.ApplicationID)
	if unchanged.Status != models.StatusDraft {
		t.Fatalf("status mutated to %s", unchanged.Status)
	}
}

func TestRoleGatingLeavesApplicationUnmutated(t *testing.T) {
	f := newFixture()
	app := f.seedApplication(t, models.StatusSubmitted, 100_000, "North College")

	// The submitted -> under-review edge belongs to the reviewer.
	_, err := f.workflow.Transition(app.ApplicationID, models.StatusUnderReview, studentActor, "")
	wantKind(t, err, ErrForbidden)

	unchanged, _ := f.store.GetApplication(app.ApplicationID)
	if unchanged.Status != models.StatusSubmitted || unchanged.ReviewedAt != nil {
		t.Fatalf("application mutated by forbidden transition: %+v", unchanged)
	}
	if history, _ := f.store.ListStatusHistory(app.ApplicationID); len(history) != 0 {
		t.Fatalf("history written for forbidden transition")
	}
}

func TestSuperAdminIsNotAWorkflowActor(t *testing.T) {
	f := newFixture()
	app := f.seedApplication(t, models.StatusSubmitted, 100_000, "North College")

	admin := Actor{UserID: 1, Role: models.RoleSuperAdmin}
	_, err := f.workflow.Transition(app.ApplicationID, models.StatusUnderReview, admin, "")
	wantKind(t, err, ErrForbidden)
}

func TestHappyPathToPendingAllocation(t *testing.T) {
	f := newFixture()
	app := f.seedApplication(t, models.StatusDraft, 150_000, "North College")

	steps := []struct {
		target models.ApplicationStatus
		actor  Actor
	}{
		{models.StatusSubmitted, studentActor},
		{models.StatusUnderReview, reviewerActor},
	}
	for _, step := range steps {
		if _, err := f.workflow.Transition(app.ApplicationID, step.target, step.actor, ""); err != nil {
			t.Fatalf("transition to %s: %v", step.target, err)
		}
	}

	if _, err := f.workflow.Approve(app.ApplicationID, 120_000, reviewerActor, "looks good"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.workflow.Transition(app.ApplicationID, models.StatusPendingAllocation, reviewerActor, ""); err != nil {
		t.Fatalf("forward: %v", err)
	}

	final, _ := f.store.GetApplication(app.ApplicationID)
	if final.Status != models.StatusPendingAllocation {
		t.Fatalf("status = %s", final.Status)
	}
	if final.ApprovedAmount == nil || *final.ApprovedAmount != 120_000 {
		t.Fatalf("approved amount = %v", final.ApprovedAmount)
	}
	if final.SubmittedAt == nil || final.ReviewedAt == nil || final.ApprovedAt == nil {
		t.Fatalf("transition timestamps missing: %+v", final)
	}

	history, _ := f.store.ListStatusHistory(app.ApplicationID)
	if len(history) != 4 {
		t.Fatalf("expected 4 history rows, got %d", len(history))
	}
	if history[2].Comment == nil || *history[2].Comment != "looks good" {
		t.Fatalf("approval comment not recorded: %+v", history[2])
	}
}

func TestForwardRequiresApprovedAmount(t *testing.T) {
	f := newFixture()
	// Approved status reached without an amount only through a client bug;
	// the forward edge still has to refuse it.
	app := f.seedApplication(t, models.StatusApproved, 150_000, "North College")

	_, err := f.workflow.Transition(app.ApplicationID, models.StatusPendingAllocation, reviewerActor, "")
	wantKind(t, err, ErrMissingApprovedAmount)
}

func TestCorrectionsLoopReturnsToSubmitted(t *testing.T) {
	f := newFixture()
	app := f.seedApplication(t, models.StatusSubmitted, 100_000, "North College")

	if _, err := f.workflow.Transition(app.ApplicationID, models.StatusCorrectionsNeeded, reviewerActor, "missing income proof"); err != nil {
		t.Fatalf("corrections: %v", err)
	}
	if _, err := f.workflow.Transition(app.ApplicationID, models.StatusSubmitted, studentActor, ""); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	final, _ := f.store.GetApplication(app.ApplicationID)
	if final.Status != models.StatusSubmitted {
		t.Fatalf("status = %s", final.Status)
	}
	// Resubmission lands in submitted, not draft; the answers survive.
	if final.Purpose != "tuition" || final.RequestedAmount != 100_000 {
		t.Fatalf("application content lost on corrections loop: %+v", final)
	}
}

func TestWithdrawalEdges(t *testing.T) {
	f := newFixture()
	app := f.seedApplication(t, models.StatusUnderReview, 100_000, "North College")

	if _, err := f.workflow.Transition(app.ApplicationID, models.StatusWithdrawn, studentActor, ""); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	final, _ := f.store.GetApplication(app.ApplicationID)
	if final.Status != models.StatusWithdrawn || final.ClosedAt == nil {
		t.Fatalf("withdrawal not terminal: %+v", final)
	}

	// Terminal states have no outgoing edges.
	_, err := f.workflow.Transition(app.ApplicationID, models.StatusSubmitted, studentActor, "")
	wantKind(t, err, ErrInvalidTransition)
}

func TestOfficerRejectionEdges(t *testing.T) {
	f := newFixture()
	app := f.seedPendingAllocation(t, 100_000, "North College")

	// The pending-allocation -> rejected edge belongs to the funds officer.
	_, err := f.workflow.Transition(app.ApplicationID, models.StatusRejected, payoutActor, "")
	wantKind(t, err, ErrForbidden)

	if _, err := f.workflow.Transition(app.ApplicationID, models.StatusRejected, officerActor, "no matching allocation"); err != nil {
		t.Fatalf("officer reject: %v", err)
	}

	final, _ := f.store.GetApplication(app.ApplicationID)
	if final.Status != models.StatusRejected || final.ClosedAt == nil {
		t.Fatalf("rejection not recorded: %+v", final)
	}
}

func TestTransitionTableIsInternallyConsistent(t *testing.T) {
	for from, edges := range transitionTable {
		if from.Terminal() {
			t.Fatalf("terminal status %s has outgoing edges", from)
		}
		for to, role := range edges {
			if !role.Valid() {
				t.Fatalf("edge %s -> %s owned by unknown role %q", from, to, role)
			}
		}
	}
	// Terminal statuses must not appear as sources.
	for _, status := range []models.ApplicationStatus{models.StatusDisbursed, models.StatusRejected, models.StatusWithdrawn} {
		if _, ok := transitionTable[status]; ok {
			t.Fatalf("terminal status %s present in table", status)
		}
	}
}
