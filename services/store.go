package services

import (
	"time"

	"bursary-management-api/models"
)

// ApplicationFilter narrows ListApplications. Nil fields are ignored.
type ApplicationFilter struct {
	UserID       *int
	Status       *models.ApplicationStatus
	AllocationID *int
	Institution  *string
}

// Store is the persistence contract the core services depend on. The
// production adapter wraps GORM; tests use an in-memory implementation.
//
// Atomically runs fn against a transactional view of the store. Every read
// inside the transaction locks the row it returns, so a check-then-update
// sequence inside one Atomically call is a single atomic step. fn returning an
// error rolls back everything written inside it.
type Store interface {
	Atomically(fn func(tx Store) error) error

	GetFloat(id int) (*models.FundFloat, error)
	ListFloats() ([]models.FundFloat, error)
	SaveFloat(f *models.FundFloat) error

	GetCategory(id int) (*models.FundCategory, error)
	ListCategoriesByFloat(floatID int) ([]models.FundCategory, error)
	SaveCategory(c *models.FundCategory) error
	DeleteCategory(id int) error

	GetAllocation(id int) (*models.FundAllocation, error)
	FindActiveAllocation(categoryID int, educationLevel string) (*models.FundAllocation, error)
	ListAllocations() ([]models.FundAllocation, error)
	ListAllocationsByCategory(categoryID int) ([]models.FundAllocation, error)
	SaveAllocation(a *models.FundAllocation) error
	DeleteAllocation(id int) error

	GetApplication(id int) (*models.BursaryApplication, error)
	// FindApplicationByNumber returns nil, nil when no application carries the
	// number.
	FindApplicationByNumber(number string) (*models.BursaryApplication, error)
	ListApplications(filter ApplicationFilter) ([]models.BursaryApplication, error)
	SaveApplication(a *models.BursaryApplication) error
	DeleteApplication(id int) error
	CountApplicationsOn(day time.Time) (int64, error)

	AppendStatusHistory(h *models.ApplicationStatusHistory) error
	ListStatusHistory(applicationID int) ([]models.ApplicationStatusHistory, error)

	GetScheduleEntry(id int) (*models.DisbursementScheduleEntry, error)
	ListScheduleEntries(applicationID int) ([]models.DisbursementScheduleEntry, error)
	ListDueScheduleEntries(asOf time.Time) ([]models.DisbursementScheduleEntry, error)
	SaveScheduleEntry(e *models.DisbursementScheduleEntry) error

	SaveNotification(n *models.Notification) error
	ListNotifications(userID int) ([]models.Notification, error)
	MarkNotificationRead(id uint, userID int) error
	MarkAllNotificationsRead(userID int) error
}
