package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceEntry is one observed price for one product at one market.
type PriceEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	MarketID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"market_id"`
	SubmittedBy uuid.UUID       `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Unit        string          `gorm:"not null;size:100" json:"unit"`
	Notes       *string         `gorm:"type:text" json:"notes"`
	Status      RequestStatus   `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	ReviewedAt  *time.Time      `json:"reviewed_at"`
	ReviewedBy  *uuid.UUID      `gorm:"type:uuid" json:"reviewed_by"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Product     *Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Market      *Market      `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	User        *User        `gorm:"foreignKey:SubmittedBy" json:"user,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:PriceEntryID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (e *PriceEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Attachment is evidence (receipt, photo) stored alongside a price entry.
type Attachment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string    `gorm:"not null;size:255" json:"filename"`
	OriginalName string    `gorm:"not null;size:255" json:"original_name"`
	MimeType     string    `gorm:"not null;size:100" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	URL          string    `gorm:"not null;size:1000" json:"url"`
	PriceEntryID uuid.UUID `gorm:"type:uuid;not null;index" json:"price_entry_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
