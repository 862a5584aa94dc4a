package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type errorKind struct {
	err    error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorKinds = []errorKind{
	{services.ErrValidation, fiber.StatusBadRequest, "VALIDATION_ERROR"},
	{services.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{services.ErrAccountSuspended, fiber.StatusForbidden, "PERMISSION_DENIED"},
	{services.ErrPermissionDenied, fiber.StatusForbidden, "PERMISSION_DENIED"},
	{services.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{services.ErrDuplicateRequest, fiber.StatusConflict, "DUPLICATE_REQUEST"},
	{services.ErrAlreadyApproved, fiber.StatusConflict, "ALREADY_APPROVED"},
	{services.ErrEmailTaken, fiber.StatusConflict, "CONFLICT"},
	{services.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{services.ErrCooldownActive, fiber.StatusTooManyRequests, "COOLDOWN_ACTIVE"},
}

// writeError maps a service error to its HTTP status. Messages of expected
// failures are passed through; anything else is logged and hidden.
func writeError(c *fiber.Ctx, action string, err error) error {
	var cooldown *services.CooldownError
	if errors.As(err, &cooldown) {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(cooldown.RemainingHours*3600))
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error: true, Code: "COOLDOWN_ACTIVE", Message: cooldown.Error(),
		})
	}

	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		msg := err.Error()
		var se *services.Error
		if errors.As(err, &se) {
			msg = se.Message
		}
		return c.Status(k.status).JSON(dto.ErrorResponse{Error: true, Code: k.code, Message: msg})
	}

	attrs := []any{"action", action, "error", err.Error()}
	if rid, ok := c.Locals("requestid").(string); ok {
		attrs = append(attrs, "request_id", rid)
	}
	if user := middleware.GetUser(c); user != nil {
		attrs = append(attrs, "user_id", user.ID.String())
	}
	slog.Error("request failed", attrs...)

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Code: "INTERNAL_ERROR", Message: "Internal server error",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Code: "VALIDATION_ERROR", Message: msg,
	})
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// ErrorHandler is the fiber fallback for errors no handler wrote itself.
// Details of 5xx errors stay in the logs.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
