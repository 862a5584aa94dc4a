package services

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
)

// Audience selects who receives a notification effect.
type Audience int

const (
	// AudienceUser targets Effect.RecipientID.
	AudienceUser Audience = iota
	// AudienceAdmins targets every user whose role is ADMIN at dispatch time.
	AudienceAdmins
)

// Effect is a notification produced by a workflow transition. Workflow
// operations return effects next to their result and the HTTP boundary hands
// them to NotificationService.Dispatch after the primary write committed.
type Effect struct {
	Audience    Audience
	RecipientID uuid.UUID
	Type        models.NotificationType
	Title       string
	Message     string
	Data        map[string]any
}

func notifyUser(recipient uuid.UUID, typ models.NotificationType, title, message string, data map[string]any) Effect {
	return Effect{Audience: AudienceUser, RecipientID: recipient, Type: typ, Title: title, Message: message, Data: data}
}

func notifyAdmins(typ models.NotificationType, title, message string, data map[string]any) Effect {
	return Effect{Audience: AudienceAdmins, Type: typ, Title: title, Message: message, Data: data}
}
