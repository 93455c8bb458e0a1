package services

import (
	"errors"
	"time"

	"bursary-management-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the production Store adapter. Inside Atomically every Get* runs
// SELECT ... FOR UPDATE, so balance checks and the writes that follow them are
// one atomic step at the database level.
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Atomically(fn func(tx Store) error) error {
	if s.inTx {
		// Nested use reuses the surrounding transaction.
		return fn(s)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
}

func (s *GormStore) reader() *gorm.DB {
	if s.inTx {
		return s.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return s.db
}

func wrapNotFound(err error, entity string, id int) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return err
}

func (s *GormStore) GetFloat(id int) (*models.FundFloat, error) {
	var f models.FundFloat
	err := s.reader().Where("float_id = ? AND delete_at IS NULL", id).First(&f).Error
	if err != nil {
		return nil, wrapNotFound(err, "fund float", id)
	}
	return &f, nil
}

func (s *GormStore) ListFloats() ([]models.FundFloat, error) {
	var floats []models.FundFloat
	err := s.db.Where("delete_at IS NULL").Order("float_id").Find(&floats).Error
	return floats, err
}

func (s *GormStore) SaveFloat(f *models.FundFloat) error {
	return s.db.Save(f).Error
}

func (s *GormStore) GetCategory(id int) (*models.FundCategory, error) {
	var c models.FundCategory
	err := s.reader().Where("category_id = ? AND delete_at IS NULL", id).First(&c).Error
	if err != nil {
		return nil, wrapNotFound(err, "fund category", id)
	}
	return &c, nil
}

func (s *GormStore) ListCategoriesByFloat(floatID int) ([]models.FundCategory, error) {
	var categories []models.FundCategory
	err := s.db.Where("float_id = ? AND delete_at IS NULL", floatID).Order("category_id").Find(&categories).Error
	return categories, err
}

func (s *GormStore) SaveCategory(c *models.FundCategory) error {
	return s.db.Save(c).Error
}

func (s *GormStore) DeleteCategory(id int) error {
	now := time.Now()
	return s.db.Model(&models.FundCategory{}).
		Where("category_id = ? AND delete_at IS NULL", id).
		Update("delete_at", &now).Error
}

func (s *GormStore) GetAllocation(id int) (*models.FundAllocation, error) {
	var a models.FundAllocation
	err := s.reader().Where("allocation_id = ? AND delete_at IS NULL", id).First(&a).Error
	if err != nil {
		return nil, wrapNotFound(err, "fund allocation", id)
	}
	return &a, nil
}

func (s *GormStore) FindActiveAllocation(categoryID int, educationLevel string) (*models.FundAllocation, error) {
	var a models.FundAllocation
	err := s.reader().
		Where("category_id = ? AND education_level = ? AND status = ? AND delete_at IS NULL",
			categoryID, educationLevel, models.AllocationActive).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) ListAllocations() ([]models.FundAllocation, error) {
	var allocations []models.FundAllocation
	err := s.db.Where("delete_at IS NULL").Order("allocation_id").Find(&allocations).Error
	return allocations, err
}

func (s *GormStore) ListAllocationsByCategory(categoryID int) ([]models.FundAllocation, error) {
	var allocations []models.FundAllocation
	err := s.db.Where("category_id = ? AND delete_at IS NULL", categoryID).Order("allocation_id").Find(&allocations).Error
	return allocations, err
}

func (s *GormStore) SaveAllocation(a *models.FundAllocation) error {
	return s.db.Save(a).Error
}

func (s *GormStore) DeleteAllocation(id int) error {
	now := time.Now()
	return s.db.Model(&models.FundAllocation{}).
		Where("allocation_id = ? AND delete_at IS NULL", id).
		Update("delete_at", &now).Error
}

func (s *GormStore) GetApplication(id int) (*models.BursaryApplication, error) {
	var a models.BursaryApplication
	err := s.reader().Where("application_id = ? AND delete_at IS NULL", id).First(&a).Error
	if err != nil {
		return nil, wrapNotFound(err, "application", id)
	}
	return &a, nil
}

func (s *GormStore) FindApplicationByNumber(number string) (*models.BursaryApplication, error) {
	var a models.BursaryApplication
	err := s.reader().Where("application_number = ?", number).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) ListApplications(filter ApplicationFilter) ([]models.BursaryApplication, error) {
	query := s.db.Where("delete_at IS NULL")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AllocationID != nil {
		query = query.Where("allocation_id = ?", *filter.AllocationID)
	}
	if filter.Institution != nil {
		query = query.Where("institution = ?", *filter.Institution)
	}

	var applications []models.BursaryApplication
	err := query.Order("application_id").Find(&applications).Error
	return applications, err
}

func (s *GormStore) SaveApplication(a *models.BursaryApplication) error {
	return s.db.Save(a).Error
}

func (s *GormStore) DeleteApplication(id int) error {
	now := time.Now()
	return s.db.Model(&models.BursaryApplication{}).
		Where("application_id = ? AND delete_at IS NULL", id).
		Update("delete_at", &now).Error
}

func (s *GormStore) CountApplicationsOn(day time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.BursaryApplication{}).
		Where("DATE(create_at) = DATE(?)", day).
		Count(&count).Error
	return count, err
}

func (s *GormStore) AppendStatusHistory(h *models.ApplicationStatusHistory) error {
	return s.db.Create(h).Error
}

func (s *GormStore) ListStatusHistory(applicationID int) ([]models.ApplicationStatusHistory, error) {
	var history []models.ApplicationStatusHistory
	err := s.db.Where("application_id = ?", applicationID).Order("history_id").Find(&history).Error
	return history, err
}

func (s *GormStore) GetScheduleEntry(id int) (*models.DisbursementScheduleEntry, error) {
	var e models.DisbursementScheduleEntry
	err := s.reader().Where("entry_id = ?", id).First(&e).Error
	if err != nil {
		return nil, wrapNotFound(err, "schedule entry", id)
	}
	return &e, nil
}

func (s *GormStore) ListScheduleEntries(applicationID int) ([]models.DisbursementScheduleEntry, error) {
	var entries []models.DisbursementScheduleEntry
	err := s.reader().Where("application_id = ?", applicationID).Order("entry_id").Find(&entries).Error
	return entries, err
}

func (s *GormStore) ListDueScheduleEntries(asOf time.Time) ([]models.DisbursementScheduleEntry, error) {
	var entries []models.DisbursementScheduleEntry
	err := s.db.Preload("Application").Preload("Application.User").
		Where("disbursed = ? AND scheduled_date <= ?", false, asOf).
		Order("scheduled_date").Find(&entries).Error
	return entries, err
}

func (s *GormStore) SaveScheduleEntry(e *models.DisbursementScheduleEntry) error {
	return s.db.Save(e).Error
}

func (s *GormStore) SaveNotification(n *models.Notification) error {
	return s.db.Save(n).Error
}

func (s *GormStore) ListNotifications(userID int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).Order("create_at DESC").Find(&notifications).Error
	return notifications, err
}

func (s *GormStore) MarkNotificationRead(id uint, userID int) error {
	return s.db.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (s *GormStore) MarkAllNotificationsRead(userID int) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
