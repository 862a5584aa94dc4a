package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type UpdateContactMessageRequest struct {
	Status     *models.ContactStatus `json:"status"`
	AdminNotes *string               `json:"adminNotes"`
}

type UpdateUserRequest struct {
	UserID uuid.UUID          `json:"userId"`
	Status *models.UserStatus `json:"status"`
	Role   *models.Role       `json:"role"`
}

type DeleteUserRequest struct {
	UserID uuid.UUID `json:"userId"`
}

type AdminUser struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Role            models.Role       `json:"role"`
	Status          models.UserStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	PriceEntryCount int64             `json:"price_entry_count"`
}

type UserStats struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveUsers    int `json:"activeUsers"`
	Vendors        int `json:"vendors"`
	Admins         int `json:"admins"`
	SuspendedUsers int `json:"suspendedUsers"`
}
