package handlers

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PriceHandler struct {
	prices   *services.PriceService
	notifier *services.NotificationService
}

func NewPriceHandler(prices *services.PriceService, notifier *services.NotificationService) *PriceHandler {
	return &PriceHandler{prices: prices, notifier: notifier}
}

func (h *PriceHandler) List(c *fiber.Ctx) error {
	filters, err := parsePriceFilters(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	page, err := h.prices.List(middleware.GetUser(c), filters)
	if err != nil {
		return writeError(c, "price.list", err)
	}
	return c.JSON(page)
}

func (h *PriceHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid price entry ID")
	}

	entry, err := h.prices.Get(id, middleware.GetUser(c))
	if err != nil {
		return writeError(c, "price.get", err)
	}
	return c.JSON(fiber.Map{"data": entry})
}

func (h *PriceHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePriceEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, effects, err := h.prices.Create(middleware.GetUser(c), &req)
	if err != nil {
		return writeError(c, "price.create", err)
	}
	h.notifier.Dispatch(effects)

	msg := "Price submitted for review"
	if req.IsUpdate {
		msg = "Price update submitted for review"
	}
	if entry.Status == models.StatusApproved {
		msg = "Price published"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": entry, "message": msg})
}

func (h *PriceHandler) Edit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid price entry ID")
	}

	var patch dto.PriceEntryPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, effects, err := h.prices.Edit(id, middleware.GetUser(c), &patch)
	if err != nil {
		return writeError(c, "price.edit", err)
	}
	h.notifier.Dispatch(effects)
	return c.JSON(fiber.Map{"data": entry})
}

func (h *PriceHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid price entry ID")
	}

	if err := h.prices.Delete(id, middleware.GetUser(c)); err != nil {
		return writeError(c, "price.delete", err)
	}
	return c.JSON(fiber.Map{"message": "Price entry deleted successfully"})
}

func (h *PriceHandler) Review(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid price entry ID")
	}

	var req dto.ReviewPriceEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	entry, effects, err := h.prices.Review(id, middleware.GetUser(c), &req)
	if err != nil {
		return writeError(c, "price.review", err)
	}
	h.notifier.Dispatch(effects)
	return c.JSON(fiber.Map{"data": entry, "message": "Price entry " + string(entry.Status)})
}

func parsePriceFilters(c *fiber.Ctx) (*dto.PriceFilters, error) {
	f := &dto.PriceFilters{
		ProductName: c.Query("productName", c.Query("search")),
		Region:      c.Query("region"),
		Status:      c.Query("status"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 0),
	}

	var err error
	if f.CategoryID, err = optionalUUID(c.Query("categoryId"), "categoryId"); err != nil {
		return nil, err
	}
	if f.MarketID, err = optionalUUID(c.Query("marketId"), "marketId"); err != nil {
		return nil, err
	}
	if f.MinPrice, err = optionalDecimal(c.Query("minPrice"), "minPrice"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = optionalDecimal(c.Query("maxPrice"), "maxPrice"); err != nil {
		return nil, err
	}
	return f, nil
}

func optionalUUID(raw, name string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return &id, nil
}

func optionalDecimal(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return &d, nil
}
