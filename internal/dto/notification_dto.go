package dto

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
)

type MarkNotificationsRequest struct {
	NotificationID *uuid.UUID `json:"notificationId"`
	MarkAllAsRead  bool       `json:"markAllAsRead"`
}

type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}
