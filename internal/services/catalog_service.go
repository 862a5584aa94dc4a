package services

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService serves the read side of categories, products and markets.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) Categories(search string) ([]models.Category, error) {
	query := s.db.Model(&models.Category{})
	if like := likePattern(search); like != "" {
		query = query.Where("LOWER(name) LIKE ?", like)
	}

	var categories []models.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) Products(search string, categoryID *uuid.UUID) ([]models.Product, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")
	if like := likePattern(search); like != "" {
		query = query.Where("LOWER(name) LIKE ?", like)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Markets(search, region string) ([]models.Market, error) {
	query := s.db.Model(&models.Market{})
	if like := likePattern(search); like != "" {
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(location) LIKE ?)", like, like)
	}
	if like := likePattern(region); like != "" {
		query = query.Where("LOWER(region) LIKE ?", like)
	}

	var markets []models.Market
	if err := query.Order("name ASC").Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	return markets, nil
}

// likePattern turns a user search term into a case-insensitive contains
// pattern, or "" for no filter.
func likePattern(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return "%" + strings.ToLower(term) + "%"
}
