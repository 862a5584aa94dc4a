package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is shared by vendor requests and price entries.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a terminal review outcome.
func (s RequestStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// VendorRequest is keyed by email, not by user: a request may exist before
// the account that will eventually be promoted.
type VendorRequest struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string        `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Message           *string       `gorm:"type:text" json:"message"`
	Status            RequestStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	AdminNotes        *string       `gorm:"type:text" json:"admin_notes"`
	ReviewedAt        *time.Time    `json:"reviewed_at"`
	ReviewedBy        *uuid.UUID    `gorm:"type:uuid" json:"reviewed_by"`
	CanRequestAgainAt *time.Time    `json:"can_request_again_at"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func (r *VendorRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
