package controllers

import (
	"errors"
	"log"
	"net/http"

	"bursary-management-api/models"
	"bursary-management-api/services"

	"github.com/gin-gonic/gin"
)

// currentActor builds the workflow actor from the auth middleware context.
func currentActor(c *gin.Context) services.Actor {
	userID, _ := c.Get("userID")
	role, _ := c.Get("role")
	return services.Actor{UserID: userID.(int), Role: role.(models.Role)}
}

// respondDomainError maps a service error onto an HTTP response. Funds errors
// and workflow misuse land on separate log prefixes: the former are user
// errors, the latter usually mean a client bug.
func respondDomainError(c *gin.Context, err error) {
	var de *services.DomainError
	if !errors.As(err, &de) {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	if de.Kind.FundsError() {
		log.Printf("FUNDS: %s %s: %s", c.Request.Method, c.Request.URL.Path, de.Message)
	} else {
		log.Printf("WORKFLOW: %s %s: %s", c.Request.Method, c.Request.URL.Path, de.Message)
	}

	status := http.StatusBadRequest
	switch de.Kind {
	case services.ErrNotFound:
		status = http.StatusNotFound
	case services.ErrForbidden:
		status = http.StatusForbidden
	case services.ErrInvalidTransition, services.ErrDuplicateAllocation,
		services.ErrAllocationUnavailable, services.ErrHasActiveCommitments,
		services.ErrAlreadyDisbursed:
		status = http.StatusConflict
	}

	body := gin.H{"success": false, "error": de.Message, "kind": de.Kind}
	if de.Remaining != nil {
		body["remaining"] = *de.Remaining
	}
	c.JSON(status, body)
}
