package handlers

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	contact *services.ContactService
}

func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	msg, err := h.contact.Submit(&req)
	if err != nil {
		return writeError(c, "contact.submit", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your message has been sent successfully. We'll get back to you soon!",
		"id":      msg.ID,
	})
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	list, err := h.contact.List(c.Query("status"), c.Query("search"))
	if err != nil {
		return writeError(c, "contact.list", err)
	}
	return c.JSON(fiber.Map{"messages": list})
}

func (h *ContactHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid message ID")
	}

	var req dto.UpdateContactMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	msg, err := h.contact.Update(id, &req)
	if err != nil {
		return writeError(c, "contact.update", err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid message ID")
	}

	if err := h.contact.Delete(id); err != nil {
		return writeError(c, "contact.delete", err)
	}
	return c.JSON(fiber.Map{"success": true})
}
