package services

import (
	"bursary-management-api/models"
)

// Read-side projections. Every figure here is computed from the settled
// ledger and application rows on each call; nothing below is ever stored, so
// it cannot drift from the source records.

// AllocationStats are the aggregate figures shown on the allocation screens.
type AllocationStats struct {
	AllocationID  int     `json:"allocation_id"`
	Applications  int     `json:"applications"`
	Beneficiaries int     `json:"beneficiaries"`
	ApprovalRate  float64 `json:"approval_rate"`
	AverageAward  float64 `json:"average_award"`
	Utilization   float64 `json:"utilization"`
}

func (s *FundLedgerService) AllocationStats(allocationID int) (*AllocationStats, error) {
	allocation, err := s.store.GetAllocation(allocationID)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.ListApplications(ApplicationFilter{AllocationID: &allocationID})
	if err != nil {
		return nil, err
	}

	stats := &AllocationStats{AllocationID: allocationID, Applications: len(apps)}
	var funded int
	var awarded float64
	for _, app := range apps {
		switch app.Status {
		case models.StatusAllocated, models.StatusPendingDisbursement, models.StatusDisbursed:
			funded++
			awarded += app.AllocationAmount
		}
		if app.Status == models.StatusDisbursed {
			stats.Beneficiaries++
		}
	}
	if len(apps) > 0 {
		stats.ApprovalRate = float64(funded) / float64(len(apps)) * 100
	}
	if funded > 0 {
		stats.AverageAward = awarded / float64(funded)
	}
	if allocation.Amount > 0 {
		stats.Utilization = allocation.AllocatedAmount / allocation.Amount * 100
	}
	return stats, nil
}

// BudgetSummaryRow is one node of the float tree with its utilization.
type BudgetSummaryRow struct {
	Level           string  `json:"level"` // float|category|allocation
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	AllocatedAmount float64 `json:"allocated_amount"`
	DisbursedAmount float64 `json:"disbursed_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	Utilization     float64 `json:"utilization"`
}

func utilization(allocated, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return allocated / total * 100
}

// BudgetSummary walks the whole float -> category -> allocation tree.
func (s *FundLedgerService) BudgetSummary() ([]BudgetSummaryRow, error) {
	floats, err := s.store.ListFloats()
	if err != nil {
		return nil, err
	}

	var rows []BudgetSummaryRow
	for _, f := range floats {
		rows = append(rows, BudgetSummaryRow{
			Level:           "float",
			ID:              f.FloatID,
			Name:            f.FloatName,
			Amount:          f.Amount,
			AllocatedAmount: f.AllocatedAmount,
			DisbursedAmount: f.DisbursedAmount,
			RemainingAmount: f.RemainingAmount,
			Utilization:     utilization(f.AllocatedAmount, f.Amount),
		})

		categories, err := s.store.ListCategoriesByFloat(f.FloatID)
		if err != nil {
			return nil, err
		}
		for _, category := range categories {
			rows = append(rows, BudgetSummaryRow{
				Level:           "category",
				ID:              category.CategoryID,
				Name:            category.CategoryName,
				Amount:          category.Amount,
				AllocatedAmount: category.AllocatedAmount,
				DisbursedAmount: category.DisbursedAmount,
				RemainingAmount: category.RemainingAmount,
				Utilization:     utilization(category.AllocatedAmount, category.Amount),
			})

			allocations, err := s.store.ListAllocationsByCategory(category.CategoryID)
			if err != nil {
				return nil, err
			}
			for _, allocation := range allocations {
				rows = append(rows, BudgetSummaryRow{
					Level:           "allocation",
					ID:              allocation.AllocationID,
					Name:            allocation.EducationLevel,
					Amount:          allocation.Amount,
					AllocatedAmount: allocation.AllocatedAmount,
					DisbursedAmount: allocation.DisbursedAmount,
					RemainingAmount: allocation.RemainingAmount,
					Utilization:     utilization(allocation.AllocatedAmount, allocation.Amount),
				})
			}
		}
	}
	return rows, nil
}
