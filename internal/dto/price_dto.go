package dto

import (
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CustomProduct struct {
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"categoryId"`
	Unit       string    `json:"unit"`
}

type CustomMarket struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Region   string `json:"region"`
}

// CreatePriceEntryRequest references catalog rows by id or defines them inline.
type CreatePriceEntryRequest struct {
	ProductID       *uuid.UUID      `json:"productId"`
	MarketID        *uuid.UUID      `json:"marketId"`
	CustomProduct   *CustomProduct  `json:"customProduct"`
	CustomMarket    *CustomMarket   `json:"customMarket"`
	Price           decimal.Decimal `json:"price"`
	Unit            string          `json:"unit"`
	Notes           *string         `json:"notes"`
	IsUpdate        bool            `json:"isUpdate"`
	OriginalEntryID *uuid.UUID      `json:"originalEntryId"`
}

// PriceEntryPatch lists the fields a caller may change; nil means untouched.
type PriceEntryPatch struct {
	Price  *decimal.Decimal      `json:"price"`
	Unit   *string               `json:"unit"`
	Notes  *string               `json:"notes"`
	Status *models.RequestStatus `json:"status"`
}

type ReviewPriceEntryRequest struct {
	Status models.RequestStatus `json:"status"`
	Notes  *string              `json:"notes"`
}

type PriceFilters struct {
	ProductName string
	CategoryID  *uuid.UUID
	MarketID    *uuid.UUID
	Region      string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Status      string
	Page        int
	Limit       int
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type PriceEntryPage struct {
	Data       []models.PriceEntry `json:"data"`
	Pagination Pagination          `json:"pagination"`
}
