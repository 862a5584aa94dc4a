// Package testutil provides a migrated in-memory store and fixtures for tests.
package testutil

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/database"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a fresh, migrated SQLite in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Status:       models.UserActive,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Catalog is a minimal category/product/market triple.
type Catalog struct {
	Category *models.Category
	Product  *models.Product
	Market   *models.Market
}

func CreateCatalog(t *testing.T, db *gorm.DB) *Catalog {
	t.Helper()
	cat := &models.Category{Name: "Grains " + uuid.NewString()[:8]}
	require.NoError(t, db.Create(cat).Error)
	prod := &models.Product{Name: "Rice (Local)", CategoryID: cat.ID, Unit: "per bag (50kg)"}
	require.NoError(t, db.Create(prod).Error)
	mkt := &models.Market{Name: "Mile 12 Market", Location: "Ketu, Lagos", Region: "Lagos State"}
	require.NoError(t, db.Create(mkt).Error)
	return &Catalog{Category: cat, Product: prod, Market: mkt}
}

func CreateEntry(t *testing.T, db *gorm.DB, c *Catalog, owner *models.User, price int64, status models.RequestStatus) *models.PriceEntry {
	t.Helper()
	e := &models.PriceEntry{
		ProductID:   c.Product.ID,
		MarketID:    c.Market.ID,
		SubmittedBy: owner.ID,
		Price:       decimal.NewFromInt(price),
		Unit:        "per kg",
		Status:      status,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}
