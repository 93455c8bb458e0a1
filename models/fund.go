package models

import "time"

// FloatStatus is the lifecycle status of a fund float.
type FloatStatus string

const (
	FloatActive FloatStatus = "active"
	FloatClosed FloatStatus = "closed"
)

// AllocationStatus is the lifecycle status of a fund allocation.
type AllocationStatus string

const (
	AllocationActive    AllocationStatus = "active"
	AllocationArchived  AllocationStatus = "archived"
	AllocationSuspended AllocationStatus = "suspended"
	AllocationPending   AllocationStatus = "pending"
)

// FundFloat represents the fund_floats table. It is the top-level money pool
// sourced from one funder for one academic year. The conservation invariant
// Amount == AllocatedAmount + RemainingAmount holds at every commit point;
// all three columns are only mutated inside a single store transaction.
type FundFloat struct {
	FloatID         int         `gorm:"primaryKey;column:float_id" json:"float_id"`
	FloatName       string      `gorm:"column:float_name" json:"float_name"`
	FunderName      string      `gorm:"column:funder_name" json:"funder_name"`
	AcademicYear    string      `gorm:"column:academic_year" json:"academic_year"`
	Amount          float64     `gorm:"column:amount" json:"amount"`
	AllocatedAmount float64     `gorm:"column:allocated_amount" json:"allocated_amount"`
	DisbursedAmount float64     `gorm:"column:disbursed_amount" json:"disbursed_amount"`
	RemainingAmount float64     `gorm:"column:remaining_amount" json:"remaining_amount"`
	Status          FloatStatus `gorm:"column:status" json:"status"`
	CreatedBy       int         `gorm:"column:created_by" json:"created_by"`
	CreateAt        *time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time  `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Categories []FundCategory `gorm:"foreignKey:FloatID" json:"categories,omitempty"`
}

// FundCategory represents the fund_categories table, a named sub-pool owned
// by exactly one float (e.g. Bursary vs. Scholarship).
type FundCategory struct {
	CategoryID      int        `gorm:"primaryKey;column:category_id" json:"category_id"`
	FloatID         int        `gorm:"column:float_id" json:"float_id"`
	CategoryName    string     `gorm:"column:category_name" json:"category_name"`
	Amount          float64    `gorm:"column:amount" json:"amount"`
	AllocatedAmount float64    `gorm:"column:allocated_amount" json:"allocated_amount"`
	DisbursedAmount float64    `gorm:"column:disbursed_amount" json:"disbursed_amount"`
	RemainingAmount float64    `gorm:"column:remaining_amount" json:"remaining_amount"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Float       *FundFloat       `gorm:"foreignKey:FloatID" json:"float,omitempty"`
	Allocations []FundAllocation `gorm:"foreignKey:CategoryID" json:"allocations,omitempty"`
}

// FundAllocation represents the fund_allocations table. It is the smallest
// funded unit, scoped to one category and one education level, and the direct
// target of application binding. AllocatedAmount is the total committed to
// applications; RemainingAmount is what is still bindable.
type FundAllocation struct {
	AllocationID    int              `gorm:"primaryKey;column:allocation_id" json:"allocation_id"`
	CategoryID      int              `gorm:"column:category_id" json:"category_id"`
	EducationLevel  string           `gorm:"column:education_level" json:"education_level"`
	Amount          float64          `gorm:"column:amount" json:"amount"`
	AllocatedAmount float64          `gorm:"column:allocated_amount" json:"allocated_amount"`
	DisbursedAmount float64          `gorm:"column:disbursed_amount" json:"disbursed_amount"`
	RemainingAmount float64          `gorm:"column:remaining_amount" json:"remaining_amount"`
	Status          AllocationStatus `gorm:"column:status" json:"status"`
	CreateAt        *time.Time       `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time       `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time       `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Category *FundCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// UndisbursedCommitment is the committed money not yet paid out. This is the
// ceiling for recordDisbursement, not RemainingAmount.
func (a *FundAllocation) UndisbursedCommitment() float64 {
	return a.AllocatedAmount - a.DisbursedAmount
}

// TableName overrides
func (FundFloat) TableName() string {
	return "fund_floats"
}

func (FundCategory) TableName() string {
	return "fund_categories"
}

func (FundAllocation) TableName() string {
	return "fund_allocations"
}
