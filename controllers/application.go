package controllers

import (
	"fmt"
	"net/http"
	"time"

	"bursary-management-api/config"
	"bursary-management-api/models"
	"bursary-management-api/services"
	"bursary-management-api/utils"

	"github.com/gin-gonic/gin"
)

// GetApplications returns list of applications. Students only see their own;
// staff roles see everything.
func GetApplications(c *gin.Context) {
	actor := currentActor(c)

	filter := services.ApplicationFilter{}
	if actor.Role == models.RoleStudent {
		filter.UserID = &actor.UserID
	}
	if status := c.Query("status"); status != "" {
		s := models.ApplicationStatus(status)
		filter.Status = &s
	}
	if institution := c.Query("institution"); institution != "" {
		filter.Institution = &institution
	}

	applications, err := store.ListApplications(filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetApplication returns single application by ID with its transition log.
func GetApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor := currentActor(c)

	application, err := store.GetApplication(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if actor.Role == models.RoleStudent && application.UserID != actor.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	history, err := workflow.History(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"history":     history,
	})
}

// CreateApplication creates a new draft application.
func CreateApplication(c *gin.Context) {
	type CreateApplicationRequest struct {
		Institution     string  `json:"institution" binding:"required"`
		EducationLevel  string  `json:"education_level" binding:"required"`
		Purpose         string  `json:"purpose" binding:"required"`
		RequestedAmount float64 `json:"requested_amount" binding:"required,gt=0"`
		IDDocumentURL   *string `json:"id_document_url"`
		IncomeProofURL  *string `json:"income_proof_url"`
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := currentActor(c)
	now := time.Now()
	var application models.BursaryApplication

	// Number assignment and insert share one transaction so the free-slot
	// check cannot go stale; the unique column catches concurrent creates.
	err := store.Atomically(func(tx services.Store) error {
		number, err := services.NextApplicationNumber(tx, now)
		if err != nil {
			return err
		}
		application = models.BursaryApplication{
			ApplicationNumber: number,
			UserID:            actor.UserID,
			Institution:       utils.SanitizeInput(req.Institution),
			EducationLevel:    utils.SanitizeInput(req.EducationLevel),
			Purpose:           utils.SanitizeInput(req.Purpose),
			RequestedAmount:   req.RequestedAmount,
			Status:            models.StatusDraft,
			IDDocumentURL:     req.IDDocumentURL,
			IncomeProofURL:    req.IncomeProofURL,
			CreateAt:          &now,
			UpdateAt:          &now,
		}
		return tx.SaveApplication(&application)
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application created",
		"application": application,
	})
}

// UpdateApplication edits a draft or corrections-needed application.
func UpdateApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type UpdateApplicationRequest struct {
		Institution     *string  `json:"institution"`
		EducationLevel  *string  `json:"education_level"`
		Purpose         *string  `json:"purpose"`
		RequestedAmount *float64 `json:"requested_amount"`
		IDDocumentURL   *string  `json:"id_document_url"`
		IncomeProofURL  *string  `json:"income_proof_url"`
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := currentActor(c)
	application, err := store.GetApplication(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if application.UserID != actor.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if application.Status != models.StatusDraft && application.Status != models.StatusCorrectionsNeeded {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft or corrections-needed applications can be edited"})
		return
	}

	if req.Institution != nil {
		application.Institution = utils.SanitizeInput(*req.Institution)
	}
	if req.EducationLevel != nil {
		application.EducationLevel = utils.SanitizeInput(*req.EducationLevel)
	}
	if req.Purpose != nil {
		application.Purpose = utils.SanitizeInput(*req.Purpose)
	}
	if req.RequestedAmount != nil {
		if *req.RequestedAmount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "requested amount must be positive"})
			return
		}
		application.RequestedAmount = *req.RequestedAmount
	}
	if req.IDDocumentURL != nil {
		application.IDDocumentURL = req.IDDocumentURL
	}
	if req.IncomeProofURL != nil {
		application.IncomeProofURL = req.IncomeProofURL
	}

	now := time.Now()
	application.UpdateAt = &now
	if err := store.SaveApplication(application); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application updated",
		"application": application,
	})
}

// DeleteApplication removes a draft. No ledger interaction: nothing is bound
// before pending-allocation.
func DeleteApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	actor := currentActor(c)
	application, err := store.GetApplication(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if application.UserID != actor.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if application.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft applications can be deleted"})
		return
	}

	if err := store.DeleteApplication(id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application deleted"})
}

// transitionHandler builds a gin handler for one fixed workflow edge.
func transitionHandler(target models.ApplicationStatus, successMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		type TransitionRequest struct {
			Comment string `json:"comment"`
		}
		var req TransitionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		application, err := workflow.Transition(id, target, currentActor(c), req.Comment)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		notifyApplicant(application, successMessage)

		c.JSON(http.StatusOK, gin.H{
			"message":     successMessage,
			"application": application,
		})
	}
}

// SubmitApplication moves a draft to submitted.
func SubmitApplication(c *gin.Context) {
	transitionHandler(models.StatusSubmitted, "Application submitted")(c)
}

// ResubmitApplication returns a corrected application to the queue.
func ResubmitApplication(c *gin.Context) {
	transitionHandler(models.StatusSubmitted, "Application resubmitted")(c)
}

// WithdrawApplication withdraws an application still in review.
func WithdrawApplication(c *gin.Context) {
	transitionHandler(models.StatusWithdrawn, "Application withdrawn")(c)
}

// ReviewApplication moves a submitted application to under-review,
// corrections-needed or rejected.
func ReviewApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type ReviewRequest struct {
		Status  models.ApplicationStatus `json:"status" binding:"required"`
		Comment string                   `json:"comment"`
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case models.StatusUnderReview, models.StatusCorrectionsNeeded, models.StatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be under-review, corrections-needed or rejected"})
		return
	}

	application, err := workflow.Transition(id, req.Status, currentActor(c), req.Comment)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	notifyApplicant(application, fmt.Sprintf("Application %s", req.Status))

	c.JSON(http.StatusOK, gin.H{
		"message":     "Review recorded",
		"application": application,
	})
}

// DecideApplication completes a review: approve with an amount, send back for
// corrections, or reject.
func DecideApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type DecisionRequest struct {
		Status         models.ApplicationStatus `json:"status" binding:"required"`
		ApprovedAmount float64                  `json:"approved_amount"`
		Comment        string                   `json:"comment"`
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := currentActor(c)
	var application *models.BursaryApplication
	var err error

	switch req.Status {
	case models.StatusApproved:
		application, err = workflow.Approve(id, req.ApprovedAmount, actor, req.Comment)
	case models.StatusCorrectionsNeeded, models.StatusRejected:
		application, err = workflow.Transition(id, req.Status, actor, req.Comment)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved, corrections-needed or rejected"})
		return
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	notifyApplicant(application, fmt.Sprintf("Application %s", req.Status))

	c.JSON(http.StatusOK, gin.H{
		"message":     "Decision recorded",
		"application": application,
	})
}

// ForwardApplication sends an approved application to the funds officer.
func ForwardApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type ForwardRequest struct {
		Comment string `json:"comment"`
	}
	var req ForwardRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	application, err := workflow.Transition(id, models.StatusPendingAllocation, currentActor(c), req.Comment)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	notifyApplicant(application, "Application submitted to funds officer")

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application forwarded for allocation",
		"application": application,
	})
}

// RejectApplication is the officer-side refusal from pending-allocation or
// pending-disbursement. The transition table decides which officer owns the
// edge for the application's current status.
func RejectApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	type RejectRequest struct {
		Comment string `json:"comment" binding:"required"`
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := workflow.Transition(id, models.StatusRejected, currentActor(c), req.Comment)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	notifyApplicant(application, "Application rejected")

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application rejected",
		"application": application,
	})
}

// notifyApplicant informs the requesting student about a transition. Sink
// failures never affect the committed transition.
func notifyApplicant(application *models.BursaryApplication, title string) {
	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", application.UserID).
		First(&user).Error; err != nil {
		return
	}
	message := fmt.Sprintf("Application %s is now %s", application.ApplicationNumber, application.Status)
	appID := application.ApplicationID
	notifier.Notify(user.UserID, user.Email, title, message, "info", &appID)
}
