package dto

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
)

type SubmitVendorRequest struct {
	Email   string  `json:"email"`
	Message *string `json:"message"`
}

type ReviewVendorRequest struct {
	ID         uuid.UUID            `json:"id"`
	Status     models.RequestStatus `json:"status"`
	AdminNotes *string              `json:"adminNotes"`
}

type VendorEligibility struct {
	Request         *models.VendorRequest `json:"data"`
	CanRequest      bool                  `json:"canRequest"`
	CooldownExpired bool                  `json:"cooldownExpired"`
	TimeRemaining   int64                 `json:"timeRemaining"`
}
