package models

import "time"

// DisbursementScheduleEntry represents the disbursement_schedule table, one
// planned payout against an application's committed allocation amount.
type DisbursementScheduleEntry struct {
	EntryID       int        `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	EntryRef      string     `gorm:"column:entry_ref;unique" json:"entry_ref"`
	ApplicationID int        `gorm:"column:application_id" json:"application_id"`
	AllocationID  int        `gorm:"column:allocation_id" json:"allocation_id"`
	Amount        float64    `gorm:"column:amount" json:"amount"`
	ScheduledDate time.Time  `gorm:"column:scheduled_date" json:"scheduled_date"`
	Disbursed     bool       `gorm:"column:disbursed" json:"disbursed"`
	DisbursedAt   *time.Time `gorm:"column:disbursed_at" json:"disbursed_at,omitempty"`
	ExecutedBy    *int       `gorm:"column:executed_by" json:"executed_by,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Application *BursaryApplication `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

// TableName overrides the table name for DisbursementScheduleEntry
func (DisbursementScheduleEntry) TableName() string {
	return "disbursement_schedule"
}
