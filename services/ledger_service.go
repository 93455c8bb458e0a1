package services

import (
	"time"

	"bursary-management-api/models"
)

// FundLedgerService owns the float -> category -> allocation tree and keeps
// the conservation invariant (amount == allocated + remaining) true at every
// commit point. All balance-affecting commands run as one atomic
// check-then-update inside a store transaction; side effects are tree-local
// (one parent, one child).
type FundLedgerService struct {
	store Store
}

func NewFundLedgerService(store Store) *FundLedgerService {
	return &FundLedgerService{store: store}
}

type CreateFloatInput struct {
	FloatName    string
	FunderName   string
	AcademicYear string
	Amount       float64
	CreatedBy    int
}

func (s *FundLedgerService) CreateFloat(input CreateFloatInput) (*models.FundFloat, error) {
	if input.Amount <= 0 {
		return nil, badInput("float amount must be positive")
	}
	now := time.Now()
	f := &models.FundFloat{
		FloatName:       input.FloatName,
		FunderName:      input.FunderName,
		AcademicYear:    input.AcademicYear,
		Amount:          input.Amount,
		RemainingAmount: input.Amount,
		Status:          models.FloatActive,
		CreatedBy:       input.CreatedBy,
		CreateAt:        &now,
		UpdateAt:        &now,
	}
	if err := s.store.SaveFloat(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FundLedgerService) CloseFloat(id int) (*models.FundFloat, error) {
	var f *models.FundFloat
	err := s.store.Atomically(func(tx Store) error {
		var err error
		f, err = tx.GetFloat(id)
		if err != nil {
			return err
		}
		now := time.Now()
		f.Status = models.FloatClosed
		f.UpdateAt = &now
		return tx.SaveFloat(f)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateCategory carves a named sub-pool out of a float. The deduction from
// the float and the creation of the category commit together or not at all.
func (s *FundLedgerService) CreateCategory(floatID int, name string, amount float64) (*models.FundCategory, error) {
	if amount <= 0 {
		return nil, badInput("category amount must be positive")
	}
	var category *models.FundCategory
	err := s.store.Atomically(func(tx Store) error {
		f, err := tx.GetFloat(floatID)
		if err != nil {
			return err
		}
		if f.Status != models.FloatActive {
			return badInput("float is closed")
		}
		if amount > f.RemainingAmount {
			return insufficientFunds(f.RemainingAmount)
		}

		now := time.Now()
		f.AllocatedAmount += amount
		f.RemainingAmount -= amount
		f.UpdateAt = &now
		if err := tx.SaveFloat(f); err != nil {
			return err
		}

		category = &models.FundCategory{
			FloatID:         floatID,
			CategoryName:    name,
			Amount:          amount,
			RemainingAmount: amount,
			CreateAt:        &now,
			UpdateAt:        &now,
		}
		return tx.SaveCategory(category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// CreateAllocation mirrors the category -> float deduction one level down,
// scoped to one education level. Only one active allocation may exist per
// (category, education level) pair.
func (s *FundLedgerService) CreateAllocation(categoryID int, educationLevel string, amount float64) (*models.FundAllocation, error) {
	if amount <= 0 {
		return nil, badInput("allocation amount must be positive")
	}
	if educationLevel == "" {
		return nil, badInput("education level is required")
	}
	var allocation *models.FundAllocation
	err := s.store.Atomically(func(tx Store) error {
		category, err := tx.GetCategory(categoryID)
		if err != nil {
			return err
		}
		existing, err := tx.FindActiveAllocation(categoryID, educationLevel)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateAllocation(educationLevel)
		}
		if amount > category.RemainingAmount {
			return insufficientFunds(category.RemainingAmount)
		}

		now := time.Now()
		category.AllocatedAmount += amount
		category.RemainingAmount -= amount
		category.UpdateAt = &now
		if err := tx.SaveCategory(category); err != nil {
			return err
		}

		allocation = &models.FundAllocation{
			CategoryID:      categoryID,
			EducationLevel:  educationLevel,
			Amount:          amount,
			RemainingAmount: amount,
			Status:          models.AllocationActive,
			CreateAt:        &now,
			UpdateAt:        &now,
		}
		return tx.SaveAllocation(allocation)
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}

// DeleteAllocation refunds the allocation's full amount to its category.
// Disbursed money is immutable history, so any disbursement blocks deletion.
func (s *FundLedgerService) DeleteAllocation(id int) error {
	return s.store.Atomically(func(tx Store) error {
		allocation, err := tx.GetAllocation(id)
		if err != nil {
			return err
		}
		if allocation.DisbursedAmount > 0 {
			return hasActiveCommitments(allocation.DisbursedAmount)
		}
		category, err := tx.GetCategory(allocation.CategoryID)
		if err != nil {
			return err
		}

		now := time.Now()
		category.AllocatedAmount -= allocation.Amount
		category.RemainingAmount += allocation.Amount
		category.UpdateAt = &now
		if err := tx.SaveCategory(category); err != nil {
			return err
		}
		return tx.DeleteAllocation(id)
	})
}

// DeleteCategory refunds the category's full amount to its float. Child
// allocations must be deleted first so their refunds are not lost.
func (s *FundLedgerService) DeleteCategory(id int) error {
	return s.store.Atomically(func(tx Store) error {
		category, err := tx.GetCategory(id)
		if err != nil {
			return err
		}
		if category.DisbursedAmount > 0 {
			return hasActiveCommitments(category.DisbursedAmount)
		}
		children, err := tx.ListAllocationsByCategory(id)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return badInput("category still has allocations; delete them first")
		}
		f, err := tx.GetFloat(category.FloatID)
		if err != nil {
			return err
		}

		now := time.Now()
		f.AllocatedAmount -= category.Amount
		f.RemainingAmount += category.Amount
		f.UpdateAt = &now
		if err := tx.SaveFloat(f); err != nil {
			return err
		}
		return tx.DeleteCategory(id)
	})
}

// setAllocationStatus is the shared status-only transition. Archived and
// suspended allocations may not receive new bindings, but existing
// disbursement schedules continue.
func (s *FundLedgerService) setAllocationStatus(id int, status models.AllocationStatus) (*models.FundAllocation, error) {
	var allocation *models.FundAllocation
	err := s.store.Atomically(func(tx Store) error {
		var err error
		allocation, err = tx.GetAllocation(id)
		if err != nil {
			return err
		}
		now := time.Now()
		allocation.Status = status
		allocation.UpdateAt = &now
		return tx.SaveAllocation(allocation)
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}

func (s *FundLedgerService) ArchiveAllocation(id int) (*models.FundAllocation, error) {
	return s.setAllocationStatus(id, models.AllocationArchived)
}

func (s *FundLedgerService) ActivateAllocation(id int) (*models.FundAllocation, error) {
	return s.setAllocationStatus(id, models.AllocationActive)
}

func (s *FundLedgerService) SuspendAllocation(id int) (*models.FundAllocation, error) {
	return s.setAllocationStatus(id, models.AllocationSuspended)
}

// recordAllocationTx commits part of an allocation's remaining balance to an
// application. Must run inside the caller's transaction so the remaining
// check and the deduction are one step.
func (s *FundLedgerService) recordAllocationTx(tx Store, allocationID int, amount float64) (*models.FundAllocation, error) {
	allocation, err := tx.GetAllocation(allocationID)
	if err != nil {
		return nil, err
	}
	if allocation.Status != models.AllocationActive {
		return nil, allocationUnavailable(string(allocation.Status))
	}
	if amount > allocation.RemainingAmount {
		return nil, insufficientFunds(allocation.RemainingAmount)
	}

	now := time.Now()
	allocation.AllocatedAmount += amount
	allocation.RemainingAmount -= amount
	allocation.UpdateAt = &now
	if err := tx.SaveAllocation(allocation); err != nil {
		return nil, err
	}
	return allocation, nil
}

// recordDisbursementTx records a payout against an allocation's committed
// balance and rolls the figure up to the category and float. DisbursedAmount
// only ever grows.
func (s *FundLedgerService) recordDisbursementTx(tx Store, allocationID int, amount float64) (*models.FundAllocation, error) {
	allocation, err := tx.GetAllocation(allocationID)
	if err != nil {
		return nil, err
	}
	if remaining := allocation.UndisbursedCommitment(); amount > remaining {
		return nil, exceedsAllocated(remaining)
	}

	now := time.Now()
	allocation.DisbursedAmount += amount
	allocation.UpdateAt = &now
	if err := tx.SaveAllocation(allocation); err != nil {
		return nil, err
	}

	category, err := tx.GetCategory(allocation.CategoryID)
	if err != nil {
		return nil, err
	}
	category.DisbursedAmount += amount
	category.UpdateAt = &now
	if err := tx.SaveCategory(category); err != nil {
		return nil, err
	}

	f, err := tx.GetFloat(category.FloatID)
	if err != nil {
		return nil, err
	}
	f.DisbursedAmount += amount
	f.UpdateAt = &now
	if err := tx.SaveFloat(f); err != nil {
		return nil, err
	}
	return allocation, nil
}

// RecordDisbursement is the standalone form of recordDisbursementTx for
// callers outside an existing transaction.
func (s *FundLedgerService) RecordDisbursement(allocationID int, amount float64) (*models.FundAllocation, error) {
	if amount <= 0 {
		return nil, badInput("disbursement amount must be positive")
	}
	var allocation *models.FundAllocation
	err := s.store.Atomically(func(tx Store) error {
		var err error
		allocation, err = s.recordDisbursementTx(tx, allocationID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}
