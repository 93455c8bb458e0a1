package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BindApplication commits part of the allocation's remaining balance to one
// application and drives it to allocated.
func BindApplication(c *gin.Context) {
	allocationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type BindRequest struct {
		ApplicationID int     `json:"application_id" binding:"required"`
		Amount        float64 `json:"amount" binding:"required,gt=0"`
		Comment       string  `json:"comment"`
	}
	var req BindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	application, err := binder.BindSingle(req.ApplicationID, allocationID, req.Amount, currentActor(c), req.Comment)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	notifyApplicant(application, "Funds allocated")

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Application bound to allocation",
		"application": application,
	})
}

// BindApplicationBatch binds a set of applications in one transaction: either
// every application binds, or none do.
func BindApplicationBatch(c *gin.Context) {
	allocationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	type BatchBindRequest struct {
		ApplicationIDs []int `json:"application_ids" binding:"required,min=1"`
	}
	var req BatchBindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := binder.BindBatch(req.ApplicationIDs, allocationID, currentActor(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	for _, group := range result.Institutions {
		for i := range group.Applications {
			notifyApplicant(&group.Applications[i], "Funds allocated")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Batch bound",
		"result":  result,
	})
}
