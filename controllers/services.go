package controllers

import (
	"bursary-management-api/services"
)

// Package-level services, wired once at startup.
var (
	store     services.Store
	ledger    *services.FundLedgerService
	workflow  *services.WorkflowEngine
	binder    *services.AllocationBinder
	scheduler *services.DisbursementScheduler
	notifier  *services.NotificationService
)

// Init wires the controllers to a store. Called from main with the GORM
// adapter; tests may pass an in-memory store.
func Init(s services.Store) {
	store = s
	ledger = services.NewFundLedgerService(s)
	workflow = services.NewWorkflowEngine(s)
	binder = services.NewAllocationBinder(s, ledger, workflow)
	scheduler = services.NewDisbursementScheduler(s, ledger, workflow)
	notifier = services.NewNotificationService(s)
}
