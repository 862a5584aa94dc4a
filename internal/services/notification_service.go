package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultNotificationLimit = 50

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Dispatch stores the notifications described by effects. It runs after the
// workflow write has committed, so failures are logged and dropped.
func (s *NotificationService) Dispatch(effects []Effect) {
	for _, e := range effects {
		switch e.Audience {
		case AudienceAdmins:
			if err := s.EmitToAdmins(e.Type, e.Title, e.Message, e.Data); err != nil {
				slog.Error("failed to notify admins",
					"action", "notification.dispatch",
					"type", e.Type,
					"error", err.Error(),
				)
			}
		default:
			if _, err := s.Emit(e.RecipientID, e.Type, e.Title, e.Message, e.Data); err != nil {
				slog.Error("failed to notify user",
					"action", "notification.dispatch",
					"type", e.Type,
					"user_id", e.RecipientID.String(),
					"error", err.Error(),
				)
			}
		}
	}
}

// Emit creates one notification. It is the building block for Dispatch and
// may also be used directly.
func (s *NotificationService) Emit(userID uuid.UUID, typ models.NotificationType, title, message string, data map[string]any) (*models.Notification, error) {
	payload, err := encodeData(data)
	if err != nil {
		return nil, err
	}
	n := models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    payload,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &n, nil
}

// EmitToAdmins creates one notification per user whose role is ADMIN now.
func (s *NotificationService) EmitToAdmins(typ models.NotificationType, title, message string, data map[string]any) error {
	payload, err := encodeData(data)
	if err != nil {
		return err
	}

	var adminIDs []uuid.UUID
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Pluck("id", &adminIDs).Error; err != nil {
		return fmt.Errorf("failed to load admins: %w", err)
	}
	if len(adminIDs) == 0 {
		return nil
	}

	batch := make([]models.Notification, 0, len(adminIDs))
	for _, id := range adminIDs {
		batch = append(batch, models.Notification{
			UserID:  id,
			Type:    typ,
			Title:   title,
			Message: message,
			Data:    payload,
		})
	}
	if err := s.db.Create(&batch).Error; err != nil {
		return fmt.Errorf("failed to create admin notifications: %w", err)
	}
	return nil
}

// ListFor returns the newest notifications of one user.
func (s *NotificationService) ListFor(userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	var list []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read. The recipient is part of the
// filter, so another user's notification is left untouched and no error is
// reported.
func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	if err := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notifications: %w", err)
	}
	return nil
}

func encodeData(data map[string]any) (datatypes.JSON, error) {
	if len(data) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}
	return datatypes.JSON(raw), nil
}
