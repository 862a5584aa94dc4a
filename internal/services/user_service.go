package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService is the admin view over accounts.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns every user with their price entry count, newest first.
func (s *UserService) List() ([]dto.AdminUser, dto.UserStats, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, dto.UserStats{}, fmt.Errorf("failed to list users: %w", err)
	}

	var counts []struct {
		SubmittedBy uuid.UUID
		Total       int64
	}
	if err := s.db.Model(&models.PriceEntry{}).
		Select("submitted_by, COUNT(*) AS total").
		Group("submitted_by").
		Scan(&counts).Error; err != nil {
		return nil, dto.UserStats{}, fmt.Errorf("failed to count price entries: %w", err)
	}
	perUser := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		perUser[c.SubmittedBy] = c.Total
	}

	stats := dto.UserStats{TotalUsers: len(users)}
	result := make([]dto.AdminUser, 0, len(users))
	for _, u := range users {
		result = append(result, dto.AdminUser{
			ID:              u.ID,
			Name:            u.Name,
			Email:           u.Email,
			Role:            u.Role,
			Status:          u.Status,
			CreatedAt:       u.CreatedAt,
			UpdatedAt:       u.UpdatedAt,
			PriceEntryCount: perUser[u.ID],
		})

		switch u.Status {
		case models.UserActive:
			stats.ActiveUsers++
		case models.UserSuspended, models.UserBanned:
			stats.SuspendedUsers++
		}
		switch u.Role {
		case models.RoleVendor:
			stats.Vendors++
		case models.RoleAdmin:
			stats.Admins++
		}
	}
	return result, stats, nil
}

// Update changes the status and/or role of another user.
func (s *UserService) Update(actorID uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	if req.UserID == uuid.Nil {
		return nil, validationError("User ID is required")
	}
	if req.Status == nil && req.Role == nil {
		return nil, validationError("No update data provided")
	}
	if req.Status != nil {
		switch *req.Status {
		case models.UserActive, models.UserSuspended, models.UserBanned:
		default:
			return nil, validationError("Invalid status. Must be ACTIVE, SUSPENDED, or BANNED")
		}
	}
	if req.Role != nil && !req.Role.Valid() {
		return nil, validationError("Invalid role. Must be USER, VENDOR, or ADMIN")
	}
	if req.UserID == actorID {
		return nil, permissionDenied("You cannot change your own account")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	columns := []string{}
	if req.Status != nil {
		user.Status = *req.Status
		columns = append(columns, "status")
	}
	if req.Role != nil {
		user.Role = *req.Role
		columns = append(columns, "role")
	}
	if err := s.db.Model(&user).Select(columns).Updates(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// Delete removes a user together with their price entries, the entries'
// attachments and their notifications.
func (s *UserService) Delete(actorID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return validationError("User ID is required")
	}
	if userID == actorID {
		return permissionDenied("You cannot delete your own account")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("User not found")
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		entries := tx.Model(&models.PriceEntry{}).Select("id").Where("submitted_by = ?", userID)
		if err := tx.Where("price_entry_id IN (?)", entries).Delete(&models.Attachment{}).Error; err != nil {
			return fmt.Errorf("failed to delete attachments: %w", err)
		}
		if err := tx.Where("submitted_by = ?", userID).Delete(&models.PriceEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete price entries: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("failed to delete notifications: %w", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// BootstrapAdmins promotes the listed emails to ADMIN. Emails with no account
// yet are skipped; they are promoted on the next start after registering.
func (s *UserService) BootstrapAdmins(emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	res := s.db.Model(&models.User{}).
		Where("email IN ? AND role <> ?", emails, models.RoleAdmin).
		Update("role", models.RoleAdmin)
	if res.Error != nil {
		return fmt.Errorf("failed to bootstrap admins: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		slog.Info("promoted bootstrap admins", "count", res.RowsAffected)
	}
	return nil
}
