package handlers

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
)

type VendorRequestHandler struct {
	requests *services.VendorRequestService
}

func NewVendorRequestHandler(requests *services.VendorRequestService) *VendorRequestHandler {
	return &VendorRequestHandler{requests: requests}
}

func (h *VendorRequestHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitVendorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	vr, err := h.requests.Submit(&req)
	if err != nil {
		return writeError(c, "vendor_request.submit", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    vr,
		"message": "Vendor request submitted successfully",
	})
}

func (h *VendorRequestHandler) Eligibility(c *fiber.Ctx) error {
	result, err := h.requests.CheckEligibility(c.Query("email"))
	if err != nil {
		return writeError(c, "vendor_request.eligibility", err)
	}
	return c.JSON(result)
}

func (h *VendorRequestHandler) List(c *fiber.Ctx) error {
	list, err := h.requests.List(c.Query("status"))
	if err != nil {
		return writeError(c, "vendor_request.list", err)
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *VendorRequestHandler) Review(c *fiber.Ctx) error {
	var req dto.ReviewVendorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	admin := middleware.GetUser(c)
	vr, err := h.requests.Review(&req, admin.ID)
	if err != nil {
		return writeError(c, "vendor_request.review", err)
	}
	return c.JSON(fiber.Map{
		"data":    vr,
		"message": "Vendor request " + string(vr.Status),
	})
}
