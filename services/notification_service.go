package services

import (
	"fmt"
	"log"
	"time"

	"bursary-management-api/config"
	"bursary-management-api/models"
)

// NotificationService records in-app notifications and mails the recipient.
// It is a fire-and-forget sink: failures are logged and never propagate back
// into the transition that triggered them.
type NotificationService struct {
	store Store
}

func NewNotificationService(store Store) *NotificationService {
	return &NotificationService{store: store}
}

// Notify writes the notification row and sends the email asynchronously.
func (s *NotificationService) Notify(userID int, email, title, message, ntype string, applicationID *int) {
	n := &models.Notification{
		UserID:               userID,
		Title:                title,
		Message:              message,
		Type:                 ntype,
		RelatedApplicationID: applicationID,
		CreateAt:             time.Now(),
	}
	if err := s.store.SaveNotification(n); err != nil {
		log.Printf("NOTIFY: failed to save notification for user %d: %v", userID, err)
	}

	if email == "" {
		return
	}
	go func() {
		body := fmt.Sprintf("<p>%s</p><p>%s</p>", title, message)
		if err := config.SendMail([]string{email}, title, body); err != nil {
			log.Printf("NOTIFY: failed to mail %s: %v", email, err)
		}
	}()
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(userID int) ([]models.Notification, error) {
	return s.store.ListNotifications(userID)
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(id uint, userID int) error {
	return s.store.MarkNotificationRead(id, userID)
}

// MarkAllRead flags every unread notification for the user.
func (s *NotificationService) MarkAllRead(userID int) error {
	return s.store.MarkAllNotificationsRead(userID)
}
