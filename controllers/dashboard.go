package controllers

import (
	"net/http"
	"time"

	"bursary-management-api/models"
	"bursary-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns dashboard statistics. Students get their own
// application summary; staff roles get the whole pipeline.
func GetDashboardStats(c *gin.Context) {
	actor := currentActor(c)

	var stats map[string]interface{}
	var err error
	if actor.Role == models.RoleStudent {
		stats, err = getStudentDashboard(actor.UserID)
	} else {
		stats, err = getOfficerDashboard()
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// getStudentDashboard summarises one student's applications.
func getStudentDashboard(userID int) (map[string]interface{}, error) {
	applications, err := store.ListApplications(services.ApplicationFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}

	var requested, awarded float64
	byStatus := make(map[models.ApplicationStatus]int)
	for _, app := range applications {
		byStatus[app.Status]++
		requested += app.RequestedAmount
		awarded += app.AllocationAmount
	}

	return map[string]interface{}{
		"total":           len(applications),
		"by_status":       byStatus,
		"total_requested": requested,
		"total_awarded":   awarded,
	}, nil
}

// getOfficerDashboard summarises the whole pipeline plus ledger totals.
func getOfficerDashboard() (map[string]interface{}, error) {
	applications, err := store.ListApplications(services.ApplicationFilter{})
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.ApplicationStatus]int)
	var requested, committed, disbursed float64
	for _, app := range applications {
		byStatus[app.Status]++
		requested += app.RequestedAmount
		committed += app.AllocationAmount
		disbursed += app.DisbursedAmount
	}

	floats, err := store.ListFloats()
	if err != nil {
		return nil, err
	}
	var floatTotal, floatAllocated, floatDisbursed, floatRemaining float64
	for _, f := range floats {
		floatTotal += f.Amount
		floatAllocated += f.AllocatedAmount
		floatDisbursed += f.DisbursedAmount
		floatRemaining += f.RemainingAmount
	}

	return map[string]interface{}{
		"applications": map[string]interface{}{
			"total":     len(applications),
			"by_status": byStatus,
			"requested": requested,
			"committed": committed,
			"disbursed": disbursed,
		},
		"funds": map[string]interface{}{
			"floats":    len(floats),
			"total":     floatTotal,
			"allocated": floatAllocated,
			"disbursed": floatDisbursed,
			"remaining": floatRemaining,
		},
	}, nil
}

// GetBudgetSummary walks the float tree with utilization computed on read.
func GetBudgetSummary(c *gin.Context) {
	rows, err := ledger.BudgetSummary()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": rows,
	})
}
