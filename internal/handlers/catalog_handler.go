package handlers

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	list, err := h.catalog.Categories(c.Query("search"))
	if err != nil {
		return writeError(c, "catalog.categories", err)
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	categoryID, err := optionalUUID(c.Query("categoryId"), "categoryId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	list, err := h.catalog.Products(c.Query("search"), categoryID)
	if err != nil {
		return writeError(c, "catalog.products", err)
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *CatalogHandler) Markets(c *fiber.Ctx) error {
	list, err := h.catalog.Markets(c.Query("search"), c.Query("region"))
	if err != nil {
		return writeError(c, "catalog.markets", err)
	}
	return c.JSON(fiber.Map{"data": list})
}
