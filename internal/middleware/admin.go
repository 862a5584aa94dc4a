package middleware

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired must run after CurrentUser. It checks the role stored on the
// user row.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return unauthorized(c, "Unauthorized")
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Code: "PERMISSION_DENIED", Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
