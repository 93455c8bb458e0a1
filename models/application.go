package models

import "time"

// ApplicationStatus is the closed set of workflow statuses. The legal edges
// between them live in the services transition table; call sites never compare
// raw strings.
type ApplicationStatus string

const (
	StatusDraft               ApplicationStatus = "draft"
	StatusSubmitted           ApplicationStatus = "submitted"
	StatusUnderReview         ApplicationStatus = "under-review"
	StatusCorrectionsNeeded   ApplicationStatus = "corrections-needed"
	StatusApproved            ApplicationStatus = "approved"
	StatusPendingAllocation   ApplicationStatus = "pending-allocation"
	StatusAllocated           ApplicationStatus = "allocated"
	StatusPendingDisbursement ApplicationStatus = "pending-disbursement"
	StatusDisbursed           ApplicationStatus = "disbursed"
	StatusRejected            ApplicationStatus = "rejected"
	StatusWithdrawn           ApplicationStatus = "withdrawn"
)

// Terminal reports whether no further transitions leave s.
func (s ApplicationStatus) Terminal() bool {
	switch s {
	case StatusDisbursed, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// BursaryApplication represents the bursary_applications table.
type BursaryApplication struct {
	ApplicationID     int               `gorm:"primaryKey;column:application_id" json:"application_id"`
	ApplicationNumber string            `gorm:"column:application_number;unique" json:"application_number"`
	UserID            int               `gorm:"column:user_id" json:"user_id"`
	Institution       string            `gorm:"column:institution" json:"institution"`
	EducationLevel    string            `gorm:"column:education_level" json:"education_level"`
	Purpose           string            `gorm:"column:purpose" json:"purpose"`
	RequestedAmount   float64           `gorm:"column:requested_amount" json:"requested_amount"`
	ApprovedAmount    *float64          `gorm:"column:approved_amount" json:"approved_amount,omitempty"`
	AllocationAmount  float64           `gorm:"column:allocation_amount" json:"allocation_amount"`
	DisbursedAmount   float64           `gorm:"column:disbursed_amount" json:"disbursed_amount"`
	Status            ApplicationStatus `gorm:"column:status" json:"status"`
	AllocationID      *int              `gorm:"column:allocation_id" json:"allocation_id,omitempty"`
	ReviewComment     *string           `gorm:"column:review_comment" json:"review_comment,omitempty"`

	// Opaque document references; content lives in the document store.
	IDDocumentURL  *string `gorm:"column:id_document_url" json:"id_document_url,omitempty"`
	IncomeProofURL *string `gorm:"column:income_proof_url" json:"income_proof_url,omitempty"`

	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ApprovedAt  *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	AllocatedAt *time.Time `gorm:"column:allocated_at" json:"allocated_at,omitempty"`
	DisbursedAt *time.Time `gorm:"column:disbursed_at" json:"disbursed_at,omitempty"`
	ClosedAt    *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User       User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Allocation *FundAllocation `gorm:"foreignKey:AllocationID" json:"allocation,omitempty"`
}

// ApplicationStatusHistory represents the application_status_history table,
// one row per successful transition.
type ApplicationStatusHistory struct {
	HistoryID     int               `gorm:"primaryKey;column:history_id" json:"history_id"`
	ApplicationID int               `gorm:"column:application_id" json:"application_id"`
	FromStatus    ApplicationStatus `gorm:"column:from_status" json:"from_status"`
	ToStatus      ApplicationStatus `gorm:"column:to_status" json:"to_status"`
	ActorID       int               `gorm:"column:actor_id" json:"actor_id"`
	ActorRole     Role              `gorm:"column:actor_role" json:"actor_role"`
	Comment       *string           `gorm:"column:comment" json:"comment,omitempty"`
	CreateAt      time.Time         `gorm:"column:create_at" json:"create_at"`
}

// TableName overrides
func (BursaryApplication) TableName() string {
	return "bursary_applications"
}

func (ApplicationStatusHistory) TableName() string {
	return "application_status_history"
}
