package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetNotifications returns the current user's notifications, newest first.
func GetNotifications(c *gin.Context) {
	actor := currentActor(c)
	notifications, err := notifier.List(actor.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
		"unread":        unread,
	})
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	actor := currentActor(c)
	if err := notifier.MarkRead(uint(id), actor.UserID); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllNotificationsRead flags every unread notification as read.
func MarkAllNotificationsRead(c *gin.Context) {
	actor := currentActor(c)
	if err := notifier.MarkAllRead(actor.UserID); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read"})
}
