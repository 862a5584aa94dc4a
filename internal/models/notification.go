package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifyPriceApproved     NotificationType = "price_approved"
	NotifyPriceRejected     NotificationType = "price_rejected"
	NotifyVendorPriceUpdate NotificationType = "vendor_price_update"
	NotifyPriceUpdated      NotificationType = "price_updated"
)

// Notification is a pull-based notice for one recipient. It is never
// authoritative: losing one does not affect the workflow that produced it.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"size:50;not null" json:"type"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Data      datatypes.JSON   `json:"data,omitempty"`
	Read      bool             `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
