package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PriceService runs the price entry lifecycle: PENDING -> APPROVED | REJECTED,
// with owner edits sending an entry back to PENDING.
type PriceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPriceService(db *gorm.DB) *PriceService {
	return &PriceService{db: db, now: time.Now}
}

// Create stores a new observation. submitter must be the store-fresh user row,
// not the token payload.
func (s *PriceService) Create(submitter *models.User, req *dto.CreatePriceEntryRequest) (*models.PriceEntry, []Effect, error) {
	if submitter == nil || !submitter.IsActive() {
		return nil, nil, newError(ErrUnauthorized, "User not found or inactive")
	}
	if submitter.Role != models.RoleVendor && submitter.Role != models.RoleAdmin {
		return nil, nil, permissionDenied("Only vendors can submit prices. Your current role: %s", submitter.Role)
	}

	unit := strings.TrimSpace(req.Unit)
	if (req.ProductID == nil && req.CustomProduct == nil) || (req.MarketID == nil && req.CustomMarket == nil) || unit == "" {
		return nil, nil, validationError("Product, market, price, and unit are required")
	}
	if req.Price.Sign() <= 0 {
		return nil, nil, validationError("Price must be greater than 0")
	}
	if req.ProductID == nil {
		cp := req.CustomProduct
		if strings.TrimSpace(cp.Name) == "" || cp.CategoryID == uuid.Nil || strings.TrimSpace(cp.Unit) == "" {
			return nil, nil, validationError("Custom product requires name, category, and unit")
		}
	}
	if req.MarketID == nil {
		cm := req.CustomMarket
		if strings.TrimSpace(cm.Name) == "" || strings.TrimSpace(cm.Location) == "" || strings.TrimSpace(cm.Region) == "" {
			return nil, nil, validationError("Custom market requires name, location, and region")
		}
	}

	if req.IsUpdate {
		if req.OriginalEntryID == nil {
			return nil, nil, validationError("originalEntryId is required for a price update")
		}
		if err := s.checkUpdatable(*req.OriginalEntryID, submitter.ID); err != nil {
			return nil, nil, err
		}
	}

	var entry *models.PriceEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		productID, err := s.resolveProduct(tx, req)
		if err != nil {
			return err
		}
		marketID, err := s.resolveMarket(tx, req)
		if err != nil {
			return err
		}

		notes := req.Notes
		if req.IsUpdate {
			n := "Price update submitted by vendor"
			if notes != nil && strings.TrimSpace(*notes) != "" {
				n = "Price update: " + *notes
			}
			notes = &n
		}

		status := models.StatusPending
		if submitter.IsAdmin() {
			status = models.StatusApproved
		}

		created := models.PriceEntry{
			ProductID:   productID,
			MarketID:    marketID,
			SubmittedBy: submitter.ID,
			Price:       req.Price,
			Unit:        unit,
			Notes:       notes,
			Status:      status,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create price entry: %w", err)
		}

		entry, err = s.load(tx, created.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var effects []Effect
	if req.IsUpdate {
		productName, marketName := entryNames(entry)
		effects = append(effects, notifyAdmins(
			models.NotifyVendorPriceUpdate,
			"Vendor Price Update",
			fmt.Sprintf("%s submitted an update for %s at %s (%s)", submitter.Name, productName, marketName, FormatNaira(entry.Price)),
			map[string]any{
				"priceEntryId":    entry.ID,
				"originalEntryId": *req.OriginalEntryID,
				"productName":     productName,
				"marketName":      marketName,
				"price":           entry.Price.InexactFloat64(),
				"vendorId":        submitter.ID,
			},
		))
	}
	return entry, effects, nil
}

func (s *PriceService) checkUpdatable(originalID, submitterID uuid.UUID) error {
	var original models.PriceEntry
	err := s.db.Select("id", "submitted_by", "status").First(&original, "id = ?", originalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("Original entry not found")
	}
	if err != nil {
		return fmt.Errorf("failed to load original entry: %w", err)
	}
	if original.SubmittedBy != submitterID {
		return permissionDenied("You can only update your own entries")
	}
	if original.Status != models.StatusApproved {
		return validationError("You can only update approved entries")
	}
	return nil
}

func (s *PriceService) resolveProduct(tx *gorm.DB, req *dto.CreatePriceEntryRequest) (uuid.UUID, error) {
	if req.ProductID != nil {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", *req.ProductID).Count(&count).Error; err != nil {
			return uuid.Nil, fmt.Errorf("failed to check product: %w", err)
		}
		if count == 0 {
			return uuid.Nil, notFound("Product not found")
		}
		return *req.ProductID, nil
	}

	cp := req.CustomProduct
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", cp.CategoryID).Count(&count).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return uuid.Nil, notFound("Category not found")
	}

	product := models.Product{
		Name:       strings.TrimSpace(cp.Name),
		CategoryID: cp.CategoryID,
		Unit:       strings.TrimSpace(cp.Unit),
	}
	if err := tx.Create(&product).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product.ID, nil
}

func (s *PriceService) resolveMarket(tx *gorm.DB, req *dto.CreatePriceEntryRequest) (uuid.UUID, error) {
	if req.MarketID != nil {
		var count int64
		if err := tx.Model(&models.Market{}).Where("id = ?", *req.MarketID).Count(&count).Error; err != nil {
			return uuid.Nil, fmt.Errorf("failed to check market: %w", err)
		}
		if count == 0 {
			return uuid.Nil, notFound("Market not found")
		}
		return *req.MarketID, nil
	}

	cm := req.CustomMarket
	market := models.Market{
		Name:     strings.TrimSpace(cm.Name),
		Location: strings.TrimSpace(cm.Location),
		Region:   strings.TrimSpace(cm.Region),
	}
	if err := tx.Create(&market).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create market: %w", err)
	}
	return market.ID, nil
}

// Review applies an admin decision and yields the submitter's notification.
// Reviewing twice with the same decision only moves reviewed_at.
func (s *PriceService) Review(entryID uuid.UUID, reviewer *models.User, req *dto.ReviewPriceEntryRequest) (*models.PriceEntry, []Effect, error) {
	if reviewer == nil || !reviewer.IsAdmin() {
		return nil, nil, permissionDenied("Admin access required")
	}
	if !req.Status.IsDecision() {
		return nil, nil, validationError("Status must be APPROVED or REJECTED")
	}

	entry, err := s.load(s.db, entryID)
	if err != nil {
		return nil, nil, err
	}

	columns := s.applyDecision(entry, reviewer.ID, req.Status)
	if req.Notes != nil {
		entry.Notes = req.Notes
		columns = append(columns, "notes")
	}
	if err := s.persist(entry, columns); err != nil {
		return nil, nil, err
	}
	return entry, []Effect{reviewEffect(entry, req.Notes)}, nil
}

// Edit changes an entry on behalf of caller. Admins patch status and notes;
// the owner patches price, unit and notes, and any owner edit puts the entry
// back to PENDING so an earlier approval never covers changed content.
func (s *PriceService) Edit(entryID uuid.UUID, caller *models.User, patch *dto.PriceEntryPatch) (*models.PriceEntry, []Effect, error) {
	if caller == nil {
		return nil, nil, newError(ErrUnauthorized, "Authentication required")
	}
	if patch.Price == nil && patch.Unit == nil && patch.Notes == nil && patch.Status == nil {
		return nil, nil, validationError("No update data provided")
	}
	if patch.Price != nil && patch.Price.Sign() <= 0 {
		return nil, nil, validationError("Price must be greater than 0")
	}
	if patch.Unit != nil && strings.TrimSpace(*patch.Unit) == "" {
		return nil, nil, validationError("Unit cannot be empty")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, nil, validationError("Invalid status: %s", *patch.Status)
	}

	entry, err := s.load(s.db, entryID)
	if err != nil {
		return nil, nil, err
	}

	isOwner := entry.SubmittedBy == caller.ID
	changesContent := patch.Price != nil || patch.Unit != nil

	var (
		columns []string
		effects []Effect
	)

	switch {
	case caller.IsAdmin():
		if changesContent && !isOwner {
			return nil, nil, permissionDenied("Admins can only change the status and notes of another user's entry")
		}
		columns = applyContent(entry, patch)
		if patch.Notes != nil {
			entry.Notes = patch.Notes
			columns = append(columns, "notes")
		}
		if patch.Status != nil {
			if patch.Status.IsDecision() {
				columns = append(columns, s.applyDecision(entry, caller.ID, *patch.Status)...)
				effects = append(effects, reviewEffect(entry, patch.Notes))
			} else {
				entry.Status = *patch.Status
				columns = append(columns, "status")
			}
		}

	case isOwner:
		if patch.Status != nil {
			return nil, nil, permissionDenied("Only admins can change the status of a price entry")
		}
		if entry.Status == models.StatusRejected {
			return nil, nil, permissionDenied("Rejected entries can no longer be edited")
		}
		previousPrice, previousUnit := entry.Price, entry.Unit
		columns = applyContent(entry, patch)
		if patch.Notes != nil {
			entry.Notes = patch.Notes
			columns = append(columns, "notes")
		}
		entry.Status = models.StatusPending
		entry.ReviewedAt = nil
		entry.ReviewedBy = nil
		columns = append(columns, "status", "reviewed_at", "reviewed_by")

		if !entry.Price.Equal(previousPrice) || entry.Unit != previousUnit {
			productName, marketName := entryNames(entry)
			effects = append(effects, notifyAdmins(
				models.NotifyPriceUpdated,
				"Price Entry Updated",
				fmt.Sprintf("%s updated the price of %s at %s to %s (%s). It needs review again.",
					ownerName(entry, caller), productName, marketName, FormatNaira(entry.Price), entry.Unit),
				map[string]any{
					"priceEntryId":  entry.ID,
					"productName":   productName,
					"marketName":    marketName,
					"price":         entry.Price.InexactFloat64(),
					"previousPrice": previousPrice.InexactFloat64(),
					"unit":          entry.Unit,
					"vendorId":      caller.ID,
				},
			))
		}

	default:
		return nil, nil, permissionDenied("Permission denied")
	}

	if err := s.persist(entry, columns); err != nil {
		return nil, nil, err
	}
	return entry, effects, nil
}

// Delete removes an entry and its attachments. Only an admin or the
// submitter may do so.
func (s *PriceService) Delete(entryID uuid.UUID, caller *models.User) error {
	if caller == nil {
		return newError(ErrUnauthorized, "Authentication required")
	}

	var entry models.PriceEntry
	if err := s.db.First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Price entry not found")
		}
		return fmt.Errorf("failed to load price entry: %w", err)
	}
	if !caller.IsAdmin() && entry.SubmittedBy != caller.ID {
		return permissionDenied("Permission denied")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("price_entry_id = ?", entry.ID).Delete(&models.Attachment{}).Error; err != nil {
			return fmt.Errorf("failed to delete attachments: %w", err)
		}
		if err := tx.Delete(&entry).Error; err != nil {
			return fmt.Errorf("failed to delete price entry: %w", err)
		}
		return nil
	})
}

// Get returns one entry if viewer may see it. Hidden entries are reported as
// missing.
func (s *PriceService) Get(entryID uuid.UUID, viewer *models.User) (*models.PriceEntry, error) {
	entry, err := s.load(s.db, entryID)
	if err != nil {
		return nil, err
	}
	if !canView(entry, viewer) {
		return nil, notFound("Price entry not found")
	}
	return entry, nil
}

// List applies the visibility rule for viewer before any caller filter.
func (s *PriceService) List(viewer *models.User, f *dto.PriceFilters) (*dto.PriceEntryPage, error) {
	query := s.db.Model(&models.PriceEntry{})

	switch {
	case viewer != nil && viewer.IsAdmin():
		if f.Status != "" && f.Status != "ALL" {
			if !models.RequestStatus(f.Status).Valid() {
				return nil, validationError("Invalid status filter: %s", f.Status)
			}
			query = query.Where("status = ?", f.Status)
		}
	case viewer != nil && viewer.Role == models.RoleVendor:
		query = query.Where("(status = ? OR submitted_by = ?)", models.StatusApproved, viewer.ID)
	default:
		query = query.Where("status = ?", models.StatusApproved)
	}

	if like := likePattern(f.ProductName); like != "" || f.CategoryID != nil {
		products := s.db.Model(&models.Product{}).Select("id")
		if like != "" {
			products = products.Where("LOWER(name) LIKE ?", like)
		}
		if f.CategoryID != nil {
			products = products.Where("category_id = ?", *f.CategoryID)
		}
		query = query.Where("product_id IN (?)", products)
	}

	if f.MarketID != nil {
		query = query.Where("market_id = ?", *f.MarketID)
	} else if like := likePattern(f.Region); like != "" {
		markets := s.db.Model(&models.Market{}).Select("id").Where("LOWER(region) LIKE ?", like)
		query = query.Where("market_id IN (?)", markets)
	}

	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}

	query = query.Session(&gorm.Session{})

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count price entries: %w", err)
	}

	var entries []models.PriceEntry
	if err := withRelations(query).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list price entries: %w", err)
	}

	return &dto.PriceEntryPage{
		Data: entries,
		Pagination: dto.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *PriceService) load(db *gorm.DB, id uuid.UUID) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	if err := withRelations(db).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Price entry not found")
		}
		return nil, fmt.Errorf("failed to load price entry: %w", err)
	}
	return &entry, nil
}

// persist writes only the listed columns of a loaded entry.
func (s *PriceService) persist(entry *models.PriceEntry, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	if err := s.db.Model(entry).Select(columns).Updates(entry).Error; err != nil {
		return fmt.Errorf("failed to update price entry: %w", err)
	}
	return nil
}

func (s *PriceService) applyDecision(entry *models.PriceEntry, reviewerID uuid.UUID, decision models.RequestStatus) []string {
	now := s.now()
	entry.Status = decision
	entry.ReviewedAt = &now
	entry.ReviewedBy = &reviewerID
	return []string{"status", "reviewed_at", "reviewed_by"}
}

func applyContent(entry *models.PriceEntry, patch *dto.PriceEntryPatch) []string {
	var columns []string
	if patch.Price != nil {
		entry.Price = *patch.Price
		columns = append(columns, "price")
	}
	if patch.Unit != nil {
		entry.Unit = strings.TrimSpace(*patch.Unit)
		columns = append(columns, "unit")
	}
	return columns
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Product.Category").Preload("Market").Preload("User")
}

func canView(entry *models.PriceEntry, viewer *models.User) bool {
	if entry.Status == models.StatusApproved {
		return true
	}
	if viewer == nil {
		return false
	}
	if viewer.IsAdmin() {
		return true
	}
	return viewer.Role == models.RoleVendor && entry.SubmittedBy == viewer.ID
}

func reviewEffect(entry *models.PriceEntry, adminNotes *string) Effect {
	productName, marketName := entryNames(entry)
	price := FormatNaira(entry.Price)

	data := map[string]any{
		"priceEntryId": entry.ID,
		"productName":  productName,
		"marketName":   marketName,
		"price":        entry.Price.InexactFloat64(),
		"status":       entry.Status,
	}
	if adminNotes != nil {
		data["adminNotes"] = *adminNotes
	}

	if entry.Status == models.StatusApproved {
		return notifyUser(entry.SubmittedBy, models.NotifyPriceApproved,
			"✅ Price Entry Approved",
			fmt.Sprintf("Your price entry for %s at %s (%s) has been approved and is now live on the platform.", productName, marketName, price),
			data)
	}

	msg := fmt.Sprintf("Your price entry for %s at %s (%s) has been rejected.", productName, marketName, price)
	if adminNotes != nil && *adminNotes != "" {
		msg += " Reason: " + *adminNotes
	}
	return notifyUser(entry.SubmittedBy, models.NotifyPriceRejected, "❌ Price Entry Rejected", msg, data)
}

func entryNames(entry *models.PriceEntry) (product, market string) {
	product, market = "unknown product", "unknown market"
	if entry.Product != nil {
		product = entry.Product.Name
	}
	if entry.Market != nil {
		market = entry.Market.Name
	}
	return product, market
}

func ownerName(entry *models.PriceEntry, fallback *models.User) string {
	if entry.User != nil && entry.User.Name != "" {
		return entry.User.Name
	}
	return fallback.Name
}
