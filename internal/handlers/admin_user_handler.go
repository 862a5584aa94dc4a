package handlers

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminUserHandler struct {
	users *services.UserService
}

func NewAdminUserHandler(users *services.UserService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

func (h *AdminUserHandler) List(c *fiber.Ctx) error {
	users, stats, err := h.users.List()
	if err != nil {
		return writeError(c, "admin_user.list", err)
	}
	return c.JSON(fiber.Map{"users": users, "stats": stats})
}

func (h *AdminUserHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.users.Update(middleware.GetUser(c).ID, &req)
	if err != nil {
		return writeError(c, "admin_user.update", err)
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user), "message": "User updated successfully"})
}

func (h *AdminUserHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.users.Delete(middleware.GetUser(c).ID, req.UserID); err != nil {
		return writeError(c, "admin_user.delete", err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
