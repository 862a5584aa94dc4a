// Package seed loads the demo catalog, accounts and price entries.
package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

var categoryNames = []string{
	"Foodstuffs", "Grains & Cereals", "Vegetables", "Fruits", "Protein", "Building Materials", "Electronics",
}

var marketSeeds = []models.Market{
	{Name: "Mile 12 Market", Location: "Ketu, Lagos", Region: "Lagos State"},
	{Name: "Bodija Market", Location: "Ibadan", Region: "Oyo State"},
	{Name: "Kurmi Market", Location: "Kano", Region: "Kano State"},
	{Name: "New Benin Market", Location: "Benin City", Region: "Edo State"},
	{Name: "Ariaria Market", Location: "Aba", Region: "Abia State"},
	{Name: "Wuse Market", Location: "Abuja", Region: "FCT"},
}

type productSeed struct {
	Name     string
	Category string
	Unit     string
}

var productSeeds = []productSeed{
	{"Rice (Local)", "Grains & Cereals", "per bag (50kg)"},
	{"Rice (Foreign)", "Grains & Cereals", "per bag (50kg)"},
	{"Beans (Brown)", "Grains & Cereals", "per bag (100kg)"},
	{"Maize", "Grains & Cereals", "per bag (100kg)"},
	{"Wheat", "Grains & Cereals", "per bag (100kg)"},
	{"Tomatoes", "Vegetables", "per basket"},
	{"Onions", "Vegetables", "per bag (100kg)"},
	{"Pepper (Red)", "Vegetables", "per basket"},
	{"Yam", "Vegetables", "per tuber"},
	{"Sweet Potato", "Vegetables", "per bag (100kg)"},
	{"Plantain", "Fruits", "per bunch"},
	{"Banana", "Fruits", "per bunch"},
	{"Orange", "Fruits", "per basket"},
	{"Beef", "Protein", "per kg"},
	{"Chicken", "Protein", "per kg"},
	{"Fish (Catfish)", "Protein", "per kg"},
	{"Cement", "Building Materials", "per bag (50kg)"},
	{"Iron Rods (12mm)", "Building Materials", "per length"},
	{"Blocks (6 inch)", "Building Materials", "per piece"},
}

type userSeed struct {
	Name  string
	Email string
	Role  models.Role
}

var userSeeds = []userSeed{
	{"Admin User", "admin@demo.com", models.RoleAdmin},
	{"John Vendor", "vendor@demo.com", models.RoleVendor},
	{"Mary Trader", "mary@demo.com", models.RoleVendor},
	{"Ahmed Seller", "ahmed@demo.com", models.RoleVendor},
	{"Sarah Customer", "user@demo.com", models.RoleUser},
	{"Michael Brown", "michael@demo.com", models.RoleUser},
	{"Jennifer Wilson", "jennifer@demo.com", models.RoleUser},
}

type priceSeed struct {
	Product string
	Market  string
	Price   int64
	Vendor  string
	Status  models.RequestStatus
}

var priceSeeds = []priceSeed{
	{"Rice (Local)", "Mile 12 Market", 45000, "vendor@demo.com", models.StatusApproved},
	{"Rice (Local)", "Bodija Market", 42000, "mary@demo.com", models.StatusApproved},
	{"Rice (Local)", "Kurmi Market", 40000, "ahmed@demo.com", models.StatusApproved},
	{"Rice (Foreign)", "Mile 12 Market", 52000, "vendor@demo.com", models.StatusApproved},
	{"Rice (Foreign)", "Wuse Market", 51000, "mary@demo.com", models.StatusApproved},
	{"Beans (Brown)", "Mile 12 Market", 95000, "vendor@demo.com", models.StatusApproved},
	{"Beans (Brown)", "Bodija Market", 92000, "mary@demo.com", models.StatusApproved},
	{"Beans (Brown)", "Kurmi Market", 88000, "ahmed@demo.com", models.StatusPending},
	{"Tomatoes", "Mile 12 Market", 8000, "vendor@demo.com", models.StatusApproved},
	{"Tomatoes", "New Benin Market", 7500, "mary@demo.com", models.StatusApproved},
	{"Tomatoes", "Ariaria Market", 7200, "ahmed@demo.com", models.StatusApproved},
	{"Onions", "Kurmi Market", 35000, "ahmed@demo.com", models.StatusApproved},
	{"Onions", "Mile 12 Market", 38000, "vendor@demo.com", models.StatusApproved},
	{"Yam", "Bodija Market", 1500, "mary@demo.com", models.StatusApproved},
	{"Yam", "New Benin Market", 1200, "mary@demo.com", models.StatusApproved},
	{"Plantain", "Mile 12 Market", 2500, "vendor@demo.com", models.StatusApproved},
	{"Plantain", "Ariaria Market", 2200, "ahmed@demo.com", models.StatusApproved},
	{"Beef", "Mile 12 Market", 3500, "vendor@demo.com", models.StatusApproved},
	{"Beef", "Wuse Market", 3800, "mary@demo.com", models.StatusApproved},
	{"Chicken", "Mile 12 Market", 2800, "vendor@demo.com", models.StatusApproved},
	{"Chicken", "Bodija Market", 2600, "mary@demo.com", models.StatusPending},
	{"Cement", "Mile 12 Market", 5200, "vendor@demo.com", models.StatusApproved},
	{"Cement", "Ariaria Market", 4800, "ahmed@demo.com", models.StatusApproved},
	{"Iron Rods (12mm)", "Ariaria Market", 4500, "ahmed@demo.com", models.StatusApproved},
	{"Blocks (6 inch)", "New Benin Market", 180, "mary@demo.com", models.StatusApproved},
}

type Options struct {
	// PasswordCost is the bcrypt cost for demo accounts.
	PasswordCost int
	Now          time.Time
	Rand         *rand.Rand
}

type Summary struct {
	Categories   int
	Markets      int
	Products     int
	Users        int
	PriceEntries int
}

// Run wipes the domain tables and loads the demo data in one transaction.
func Run(db *gorm.DB, opts Options) (*Summary, error) {
	if opts.PasswordCost == 0 {
		opts.PasswordCost = 12
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Now.UnixNano()))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), opts.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	summary := &Summary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := wipe(tx); err != nil {
			return err
		}

		categories := make(map[string]*models.Category, len(categoryNames))
		for _, name := range categoryNames {
			c := &models.Category{Name: name}
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("failed to create category %q: %w", name, err)
			}
			categories[name] = c
		}

		markets := make(map[string]*models.Market, len(marketSeeds))
		for _, m := range marketSeeds {
			m := m
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("failed to create market %q: %w", m.Name, err)
			}
			markets[m.Name] = &m
		}

		products := make(map[string]*models.Product, len(productSeeds))
		for _, p := range productSeeds {
			prod := &models.Product{Name: p.Name, CategoryID: categories[p.Category].ID, Unit: p.Unit}
			if err := tx.Create(prod).Error; err != nil {
				return fmt.Errorf("failed to create product %q: %w", p.Name, err)
			}
			products[p.Name] = prod
		}

		users := make(map[string]*models.User, len(userSeeds))
		for _, u := range userSeeds {
			user := &models.User{
				Name:         u.Name,
				Email:        u.Email,
				PasswordHash: string(hash),
				Role:         u.Role,
				Status:       models.UserActive,
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("failed to create user %q: %w", u.Email, err)
			}
			users[u.Email] = user
		}

		week := int64(7 * 24 * time.Hour)
		for _, ps := range priceSeeds {
			prod := products[ps.Product]
			notes := "Current market price"
			if ps.Status == models.StatusPending {
				notes = "Awaiting admin review"
			}
			entry := &models.PriceEntry{
				ProductID:   prod.ID,
				MarketID:    markets[ps.Market].ID,
				SubmittedBy: users[ps.Vendor].ID,
				Price:       decimal.NewFromInt(ps.Price),
				Unit:        prod.Unit,
				Notes:       &notes,
				Status:      ps.Status,
				CreatedAt:   opts.Now.Add(-time.Duration(opts.Rand.Int63n(week))),
			}
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to create price entry for %q: %w", ps.Product, err)
			}
		}

		summary.Categories = len(categories)
		summary.Markets = len(markets)
		summary.Products = len(products)
		summary.Users = len(users)
		summary.PriceEntries = len(priceSeeds)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("database seeded",
		"categories", summary.Categories,
		"markets", summary.Markets,
		"products", summary.Products,
		"users", summary.Users,
		"price_entries", summary.PriceEntries,
	)
	return summary, nil
}

func wipe(tx *gorm.DB) error {
	for _, model := range []any{
		&models.Attachment{},
		&models.Notification{},
		&models.PriceEntry{},
		&models.Product{},
		&models.Category{},
		&models.Market{},
		&models.VendorRequest{},
		&models.User{},
	} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}
