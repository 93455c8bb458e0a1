package controllers

import (
	"net/http"
	"time"

	"bursary-management-api/models"
	"bursary-management-api/services"

	"github.com/gin-gonic/gin"
)

// ScheduleDisbursements creates payout entries for an allocated application.
func ScheduleDisbursements(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type ScheduleRequest struct {
		Entries []services.ScheduleEntryInput `json:"entries" binding:"required,min=1,dive"`
	}
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	entries, err := scheduler.Schedule(id, req.Entries, currentActor(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Disbursement schedule created",
		"entries": entries,
	})
}

// GetDisbursementSchedule returns the payout entries for an application.
func GetDisbursementSchedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := scheduler.Entries(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries, "total": len(entries)})
}

// SubmitForDisbursement moves an allocated application to the disbursement
// officer's queue.
func SubmitForDisbursement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	application, err := workflow.Transition(id, models.StatusPendingDisbursement, currentActor(c), "")
	if err != nil {
		respondDomainError(c, err)
		return
	}

	notifyApplicant(application, "Submitted for disbursement")

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Application submitted for disbursement",
		"application": application,
	})
}

// ExecuteDisbursement records one schedule entry as paid. The last entry
// drives the application to disbursed.
func ExecuteDisbursement(c *gin.Context) {
	entryID, ok := pathID(c, "entry_id")
	if !ok {
		return
	}

	entry, err := scheduler.Execute(entryID, currentActor(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	application, err := store.GetApplication(entry.ApplicationID)
	if err == nil {
		if application.Status == models.StatusDisbursed {
			notifyApplicant(application, "Funds disbursed")
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Disbursement recorded",
			"entry":       entry,
			"application": application,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Disbursement recorded",
		"entry":   entry,
	})
}

// GetDueDisbursements lists unexecuted entries whose date has passed.
func GetDueDisbursements(c *gin.Context) {
	entries, err := scheduler.DueEntries(time.Now())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries, "total": len(entries)})
}
