package handlers

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notifications *services.NotificationService
	requests      *services.VendorRequestService
}

func NewNotificationHandler(notifications *services.NotificationService, requests *services.VendorRequestService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, requests: requests}
}

// List serves the signed-in user's notifications. Anonymous callers may pass
// ?email= to learn whether a vendor rejection is still cooling down.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		email := c.Query("email")
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: "UNAUTHORIZED", Message: "Authentication required",
			})
		}
		notice, err := h.requests.RejectionNotice(email)
		if err != nil {
			return writeError(c, "notification.rejection_notice", err)
		}
		return c.JSON(fiber.Map{"rejectionNotice": notice})
	}

	list, err := h.notifications.ListFor(user.ID, c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, "notification.list", err)
	}
	unread, err := h.notifications.UnreadCount(user.ID)
	if err != nil {
		return writeError(c, "notification.unread_count", err)
	}
	return c.JSON(dto.NotificationsResponse{Notifications: list, UnreadCount: unread})
}

func (h *NotificationHandler) Mark(c *fiber.Ctx) error {
	var req dto.MarkNotificationsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user := middleware.GetUser(c)
	switch {
	case req.MarkAllAsRead:
		if err := h.notifications.MarkAllRead(user.ID); err != nil {
			return writeError(c, "notification.mark_all", err)
		}
	case req.NotificationID != nil:
		if err := h.notifications.MarkRead(user.ID, *req.NotificationID); err != nil {
			return writeError(c, "notification.mark", err)
		}
	default:
		return badRequest(c, "notificationId or markAllAsRead is required")
	}
	return c.JSON(fiber.Map{"success": true})
}
