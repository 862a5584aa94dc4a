package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorCooldown is how long a rejected email must wait before requesting again.
const VendorCooldown = 24 * time.Hour

// VendorRequestService runs the USER -> VENDOR onboarding state machine.
// State is keyed by email: NONE -> PENDING -> APPROVED | REJECTED, and a
// REJECTED request returns to PENDING once its cooldown has expired.
type VendorRequestService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewVendorRequestService(db *gorm.DB) *VendorRequestService {
	return &VendorRequestService{db: db, now: time.Now}
}

func (s *VendorRequestService) Submit(req *dto.SubmitVendorRequest) (*models.VendorRequest, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, validationError("Email is required")
	}
	if !validEmail(email) {
		return nil, validationError("Invalid email format")
	}

	now := s.now()

	var existing models.VendorRequest
	err := s.db.Where("email = ?", email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created := models.VendorRequest{
			Email:   email,
			Message: req.Message,
			Status:  models.StatusPending,
		}
		if err := s.db.Create(&created).Error; err != nil {
			// Lost a race with another first request for this email.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, newError(ErrDuplicateRequest, "You already have a pending vendor request")
			}
			return nil, fmt.Errorf("failed to create vendor request: %w", err)
		}
		return &created, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor request: %w", err)
	}

	switch existing.Status {
	case models.StatusPending:
		return nil, newError(ErrDuplicateRequest, "You already have a pending vendor request")
	case models.StatusApproved:
		return nil, newError(ErrAlreadyApproved, "Your vendor request has already been approved")
	case models.StatusRejected:
		if existing.CanRequestAgainAt != nil && now.Before(*existing.CanRequestAgainAt) {
			return nil, newCooldownError(*existing.CanRequestAgainAt, now)
		}
	}

	// Same row, fresh review cycle.
	existing.Message = req.Message
	existing.Status = models.StatusPending
	existing.AdminNotes = nil
	existing.ReviewedAt = nil
	existing.ReviewedBy = nil
	existing.CanRequestAgainAt = nil
	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to reset vendor request: %w", err)
	}
	return &existing, nil
}

// Review records an admin decision. Approval promotes every user registered
// under the request's email; there may be none yet.
func (s *VendorRequestService) Review(req *dto.ReviewVendorRequest, reviewerID uuid.UUID) (*models.VendorRequest, error) {
	if req.ID == uuid.Nil || req.Status == "" {
		return nil, validationError("ID and status are required")
	}
	if !req.Status.IsDecision() {
		return nil, validationError("Status must be APPROVED or REJECTED")
	}

	now := s.now()
	var vr models.VendorRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&vr, "id = ?", req.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Vendor request not found")
			}
			return fmt.Errorf("failed to load vendor request: %w", err)
		}

		vr.Status = req.Status
		vr.AdminNotes = req.AdminNotes
		vr.ReviewedAt = &now
		vr.ReviewedBy = &reviewerID
		vr.CanRequestAgainAt = nil
		if req.Status == models.StatusRejected {
			until := now.Add(VendorCooldown)
			vr.CanRequestAgainAt = &until
		}
		if err := tx.Save(&vr).Error; err != nil {
			return fmt.Errorf("failed to update vendor request: %w", err)
		}

		if req.Status == models.StatusApproved {
			if err := tx.Model(&models.User{}).
				Where("email = ?", vr.Email).
				Update("role", models.RoleVendor).Error; err != nil {
				return fmt.Errorf("failed to promote vendor: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &vr, nil
}

// CheckEligibility reports whether email may submit a vendor request now.
func (s *VendorRequestService) CheckEligibility(email string) (*dto.VendorEligibility, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, validationError("Email is required")
	}

	result := &dto.VendorEligibility{CanRequest: true}

	var vr models.VendorRequest
	err := s.db.Where("email = ?", email).First(&vr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor request: %w", err)
	}
	result.Request = &vr

	switch vr.Status {
	case models.StatusPending, models.StatusApproved:
		result.CanRequest = false
	case models.StatusRejected:
		result.CooldownExpired = true
		if vr.CanRequestAgainAt != nil {
			if remaining := vr.CanRequestAgainAt.Sub(s.now()); remaining > 0 {
				result.CanRequest = false
				result.CooldownExpired = false
				result.TimeRemaining = int64(math.Ceil(remaining.Seconds()))
			}
		}
	}
	return result, nil
}

func (s *VendorRequestService) List(status string) ([]models.VendorRequest, error) {
	query := s.db.Model(&models.VendorRequest{})
	if status != "" && status != "ALL" {
		if !models.RequestStatus(status).Valid() {
			return nil, validationError("Invalid status filter: %s", status)
		}
		query = query.Where("status = ?", status)
	}

	var requests []models.VendorRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list vendor requests: %w", err)
	}
	return requests, nil
}

// RejectionNotice returns the rejected request for email while its cooldown
// is still running, or nil.
func (s *VendorRequestService) RejectionNotice(email string) (*models.VendorRequest, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, validationError("Email is required")
	}

	var vr models.VendorRequest
	err := s.db.Where("email = ? AND status = ? AND can_request_again_at > ?",
		email, models.StatusRejected, s.now()).First(&vr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check vendor request: %w", err)
	}
	return &vr, nil
}
