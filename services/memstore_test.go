package services

import (
	"sync"
	"time"

	"bursary-management-api/models"
)

// memStore is the in-memory Store used by the service tests. Atomically takes
// a snapshot and restores it when fn fails, giving the same
// all-or-nothing behavior as the production transaction.
type memStore struct {
	mu            sync.Mutex
	floats        map[int]*models.FundFloat
	categories    map[int]*models.FundCategory
	allocations   map[int]*models.FundAllocation
	applications  map[int]*models.BursaryApplication
	entries       map[int]*models.DisbursementScheduleEntry
	history       []models.ApplicationStatusHistory
	notifications []models.Notification
	nextID        int
}

func newMemStore() *memStore {
	return &memStore{
		floats:       make(map[int]*models.FundFloat),
		categories:   make(map[int]*models.FundCategory),
		allocations:  make(map[int]*models.FundAllocation),
		applications: make(map[int]*models.BursaryApplication),
		entries:      make(map[int]*models.DisbursementScheduleEntry),
		nextID:       1,
	}
}

func (s *memStore) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) snapshot() *memStore {
	clone := newMemStore()
	clone.nextID = s.nextID
	for k, v := range s.floats {
		c := *v
		clone.floats[k] = &c
	}
	for k, v := range s.categories {
		c := *v
		clone.categories[k] = &c
	}
	for k, v := range s.allocations {
		c := *v
		clone.allocations[k] = &c
	}
	for k, v := range s.applications {
		c := *v
		clone.applications[k] = &c
	}
	for k, v := range s.entries {
		c := *v
		clone.entries[k] = &c
	}
	clone.history = append([]models.ApplicationStatusHistory(nil), s.history...)
	clone.notifications = append([]models.Notification(nil), s.notifications...)
	return clone
}

func (s *memStore) restore(from *memStore) {
	s.floats = from.floats
	s.categories = from.categories
	s.allocations = from.allocations
	s.applications = from.applications
	s.entries = from.entries
	s.history = from.history
	s.notifications = from.notifications
	s.nextID = from.nextID
}

func (s *memStore) Atomically(fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

func (s *memStore) GetFloat(id int) (*models.FundFloat, error) {
	f, ok := s.floats[id]
	if !ok {
		return nil, notFound("fund float", id)
	}
	c := *f
	return &c, nil
}

func (s *memStore) ListFloats() ([]models.FundFloat, error) {
	var out []models.FundFloat
	for id := 1; id < s.nextID; id++ {
		if f, ok := s.floats[id]; ok {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *memStore) SaveFloat(f *models.FundFloat) error {
	if f.FloatID == 0 {
		f.FloatID = s.id()
	}
	c := *f
	s.floats[f.FloatID] = &c
	return nil
}

func (s *memStore) GetCategory(id int) (*models.FundCategory, error) {
	cat, ok := s.categories[id]
	if !ok {
		return nil, notFound("fund category", id)
	}
	c := *cat
	return &c, nil
}

func (s *memStore) ListCategoriesByFloat(floatID int) ([]models.FundCategory, error) {
	var out []models.FundCategory
	for id := 1; id < s.nextID; id++ {
		if cat, ok := s.categories[id]; ok && cat.FloatID == floatID {
			out = append(out, *cat)
		}
	}
	return out, nil
}

func (s *memStore) SaveCategory(c *models.FundCategory) error {
	if c.CategoryID == 0 {
		c.CategoryID = s.id()
	}
	cp := *c
	s.categories[c.CategoryID] = &cp
	return nil
}

func (s *memStore) DeleteCategory(id int) error {
	delete(s.categories, id)
	return nil
}

func (s *memStore) GetAllocation(id int) (*models.FundAllocation, error) {
	a, ok := s.allocations[id]
	if !ok {
		return nil, notFound("fund allocation", id)
	}
	c := *a
	return &c, nil
}

func (s *memStore) FindActiveAllocation(categoryID int, educationLevel string) (*models.FundAllocation, error) {
	for id := 1; id < s.nextID; id++ {
		a, ok := s.allocations[id]
		if ok && a.CategoryID == categoryID && a.EducationLevel == educationLevel && a.Status == models.AllocationActive {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListAllocations() ([]models.FundAllocation, error) {
	var out []models.FundAllocation
	for id := 1; id < s.nextID; id++ {
		if a, ok := s.allocations[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *memStore) ListAllocationsByCategory(categoryID int) ([]models.FundAllocation, error) {
	var out []models.FundAllocation
	for id := 1; id < s.nextID; id++ {
		if a, ok := s.allocations[id]; ok && a.CategoryID == categoryID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *memStore) SaveAllocation(a *models.FundAllocation) error {
	if a.AllocationID == 0 {
		a.AllocationID = s.id()
	}
	c := *a
	s.allocations[a.AllocationID] = &c
	return nil
}

func (s *memStore) DeleteAllocation(id int) error {
	delete(s.allocations, id)
	return nil
}

func (s *memStore) GetApplication(id int) (*models.BursaryApplication, error) {
	a, ok := s.applications[id]
	if !ok {
		return nil, notFound("application", id)
	}
	c := *a
	return &c, nil
}

func (s *memStore) FindApplicationByNumber(number string) (*models.BursaryApplication, error) {
	for id := 1; id < s.nextID; id++ {
		if a, ok := s.applications[id]; ok && a.ApplicationNumber == number {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListApplications(filter ApplicationFilter) ([]models.BursaryApplication, error) {
	var out []models.BursaryApplication
	for id := 1; id < s.nextID; id++ {
		a, ok := s.applications[id]
		if !ok {
			continue
		}
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.AllocationID != nil && (a.AllocationID == nil || *a.AllocationID != *filter.AllocationID) {
			continue
		}
		if filter.Institution != nil && a.Institution != *filter.Institution {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (s *memStore) SaveApplication(a *models.BursaryApplication) error {
	if a.ApplicationID == 0 {
		// Mirrors the unique index on application_number.
		for _, other := range s.applications {
			if other.ApplicationNumber == a.ApplicationNumber {
				return badInput("application number " + a.ApplicationNumber + " already exists")
			}
		}
		a.ApplicationID = s.id()
	}
	c := *a
	s.applications[a.ApplicationID] = &c
	return nil
}

func (s *memStore) DeleteApplication(id int) error {
	delete(s.applications, id)
	return nil
}

func (s *memStore) CountApplicationsOn(day time.Time) (int64, error) {
	var count int64
	for _, a := range s.applications {
		if a.CreateAt != nil && a.CreateAt.Format("2006-01-02") == day.Format("2006-01-02") {
			count++
		}
	}
	return count, nil
}

func (s *memStore) AppendStatusHistory(h *models.ApplicationStatusHistory) error {
	h.HistoryID = s.id()
	s.history = append(s.history, *h)
	return nil
}

func (s *memStore) ListStatusHistory(applicationID int) ([]models.ApplicationStatusHistory, error) {
	var out []models.ApplicationStatusHistory
	for _, h := range s.history {
		if h.ApplicationID == applicationID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *memStore) GetScheduleEntry(id int) (*models.DisbursementScheduleEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, notFound("schedule entry", id)
	}
	c := *e
	return &c, nil
}

func (s *memStore) ListScheduleEntries(applicationID int) ([]models.DisbursementScheduleEntry, error) {
	var out []models.DisbursementScheduleEntry
	for id := 1; id < s.nextID; id++ {
		if e, ok := s.entries[id]; ok && e.ApplicationID == applicationID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *memStore) ListDueScheduleEntries(asOf time.Time) ([]models.DisbursementScheduleEntry, error) {
	var out []models.DisbursementScheduleEntry
	for id := 1; id < s.nextID; id++ {
		if e, ok := s.entries[id]; ok && !e.Disbursed && !e.ScheduledDate.After(asOf) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *memStore) SaveScheduleEntry(e *models.DisbursementScheduleEntry) error {
	if e.EntryID == 0 {
		e.EntryID = s.id()
	}
	c := *e
	s.entries[e.EntryID] = &c
	return nil
}

func (s *memStore) SaveNotification(n *models.Notification) error {
	if n.NotificationID == 0 {
		n.NotificationID = uint(s.id())
	}
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *memStore) ListNotifications(userID int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memStore) MarkNotificationRead(id uint, userID int) error {
	for i := range s.notifications {
		if s.notifications[i].NotificationID == id && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
		}
	}
	return nil
}

func (s *memStore) MarkAllNotificationsRead(userID int) error {
	for i := range s.notifications {
		if s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
		}
	}
	return nil
}
