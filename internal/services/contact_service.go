package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const minContactMessageLength = 10

// Mailer delivers outbound mail. *mailer.SMTPMailer is the production one.
type Mailer interface {
	Send(msg mailer.Message) error
}

type ContactService struct {
	db           *gorm.DB
	mail         Mailer
	supportEmail string
	now          func() time.Time
}

func NewContactService(db *gorm.DB, mail Mailer, supportEmail string) *ContactService {
	return &ContactService{db: db, mail: mail, supportEmail: supportEmail, now: time.Now}
}

// Submit stores a contact message, then mails support and the sender. Mail
// failures are logged; the stored message is what counts.
func (s *ContactService) Submit(req *dto.ContactRequest) (*models.ContactMessage, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)

	if name == "" || email == "" || subject == "" || message == "" {
		return nil, validationError("All fields are required")
	}
	if !validEmail(email) {
		return nil, validationError("Invalid email format")
	}
	if len([]rune(message)) < minContactMessageLength {
		return nil, validationError("Message must be at least %d characters long", minContactMessageLength)
	}

	msg := models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  models.ContactUnread,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}

	contact := mailer.Contact{Name: name, Email: email, Subject: subject, Message: message, SentAt: s.now()}
	if err := s.mail.Send(mailer.ContactNotification(s.supportEmail, contact)); err != nil {
		slog.Error("failed to send contact email", "action", "contact.submit", "message_id", msg.ID.String(), "error", err.Error())
	}
	if err := s.mail.Send(mailer.ContactConfirmation(contact)); err != nil {
		slog.Error("failed to send confirmation email", "action", "contact.submit", "message_id", msg.ID.String(), "error", err.Error())
	}

	return &msg, nil
}

// List returns messages newest first. search matches name, email or subject.
func (s *ContactService) List(status, search string) ([]models.ContactMessage, error) {
	query := s.db.Model(&models.ContactMessage{})
	if status != "" && status != "ALL" {
		if !models.ContactStatus(status).Valid() {
			return nil, validationError("Invalid status filter: %s", status)
		}
		query = query.Where("status = ?", status)
	}
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ?)", like, like, like)
	}

	var messages []models.ContactMessage
	if err := query.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return messages, nil
}

func (s *ContactService) Update(id uuid.UUID, req *dto.UpdateContactMessageRequest) (*models.ContactMessage, error) {
	if req.Status == nil && req.AdminNotes == nil {
		return nil, validationError("No update data provided")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, validationError("Invalid status: %s", *req.Status)
	}

	var msg models.ContactMessage
	if err := s.db.First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Contact message not found")
		}
		return nil, fmt.Errorf("failed to load contact message: %w", err)
	}

	columns := []string{}
	if req.Status != nil {
		now := s.now()
		msg.Status = *req.Status
		columns = append(columns, "status")
		switch *req.Status {
		case models.ContactRead:
			msg.ReadAt = &now
			columns = append(columns, "read_at")
		case models.ContactReplied:
			msg.RepliedAt = &now
			columns = append(columns, "replied_at")
		}
	}
	if req.AdminNotes != nil {
		msg.AdminNotes = req.AdminNotes
		columns = append(columns, "admin_notes")
	}

	if err := s.db.Model(&msg).Select(columns).Updates(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}
	return &msg, nil
}

func (s *ContactService) Delete(id uuid.UUID) error {
	res := s.db.Delete(&models.ContactMessage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete contact message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Contact message not found")
	}
	return nil
}
