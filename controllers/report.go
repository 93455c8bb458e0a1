package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExportAllocationsCSV streams the allocation report. A pure read projection;
// the figures come straight from the ledger rows.
func ExportAllocationsCSV(c *gin.Context) {
	rows, err := ledger.BudgetSummary()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	filename := fmt.Sprintf("allocations-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	if err := w.Write([]string{"level", "id", "name", "amount", "allocated", "disbursed", "remaining", "utilization_pct"}); err != nil {
		return
	}
	for _, row := range rows {
		record := []string{
			row.Level,
			fmt.Sprintf("%d", row.ID),
			row.Name,
			fmt.Sprintf("%.2f", row.Amount),
			fmt.Sprintf("%.2f", row.AllocatedAmount),
			fmt.Sprintf("%.2f", row.DisbursedAmount),
			fmt.Sprintf("%.2f", row.RemainingAmount),
			fmt.Sprintf("%.2f", row.Utilization),
		}
		if err := w.Write(record); err != nil {
			return
		}
	}

	c.Status(http.StatusOK)
}
