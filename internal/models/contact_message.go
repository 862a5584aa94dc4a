package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactStatus string

const (
	ContactUnread   ContactStatus = "UNREAD"
	ContactRead     ContactStatus = "READ"
	ContactReplied  ContactStatus = "REPLIED"
	ContactArchived ContactStatus = "ARCHIVED"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactUnread, ContactRead, ContactReplied, ContactArchived:
		return true
	}
	return false
}

// ContactMessage is a public contact-form submission triaged by admins.
type ContactMessage struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string        `gorm:"not null;size:255" json:"name"`
	Email      string        `gorm:"not null;size:255;index" json:"email"`
	Subject    string        `gorm:"not null;size:500" json:"subject"`
	Message    string        `gorm:"type:text;not null" json:"message"`
	Status     ContactStatus `gorm:"not null;default:'UNREAD';size:20;index" json:"status"`
	AdminNotes *string       `gorm:"type:text" json:"admin_notes,omitempty"`
	ReadAt     *time.Time    `json:"read_at,omitempty"`
	RepliedAt  *time.Time    `json:"replied_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
