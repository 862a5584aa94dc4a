package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/dto"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/models"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type priceFixture struct {
	db      *gorm.DB
	svc     *PriceService
	catalog *testutil.Catalog
	admin   *models.User
	vendor  *models.User
	other   *models.User
	user    *models.User
}

func newPriceFixture(t *testing.T) *priceFixture {
	t.Helper()
	db := testutil.NewDB(t)
	clock := t0
	svc := NewPriceService(db)
	svc.now = func() time.Time { return clock }
	return &priceFixture{
		db:      db,
		svc:     svc,
		catalog: testutil.CreateCatalog(t, db),
		admin:   testutil.CreateUser(t, db, "Admin User", "admin@demo.com", models.RoleAdmin),
		vendor:  testutil.CreateUser(t, db, "John Vendor", "vendor@demo.com", models.RoleVendor),
		other:   testutil.CreateUser(t, db, "Mary Trader", "mary@demo.com", models.RoleVendor),
		user:    testutil.CreateUser(t, db, "Sarah Customer", "user@demo.com", models.RoleUser),
	}
}

func (f *priceFixture) createReq(price int64) *dto.CreatePriceEntryRequest {
	return &dto.CreatePriceEntryRequest{
		ProductID: &f.catalog.Product.ID,
		MarketID:  &f.catalog.Market.ID,
		Price:     decimal.NewFromInt(price),
		Unit:      "per bag (50kg)",
	}
}

func (f *priceFixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.PriceEntry{}).Count(&n).Error)
	return n
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }

func TestPriceCreate_StatusDependsOnRole(t *testing.T) {
	f := newPriceFixture(t)

	byAdmin, effects, err := f.svc.Create(f.admin, f.createReq(45000))
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, byAdmin.Status)
	assert.Empty(t, effects)

	byVendor, effects, err := f.svc.Create(f.vendor, f.createReq(42000))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, byVendor.Status)
	assert.Empty(t, effects)
	require.NotNil(t, byVendor.Product)
	assert.Equal(t, "Rice (Local)", byVendor.Product.Name)
	require.NotNil(t, byVendor.User)
	assert.Equal(t, f.vendor.ID, byVendor.User.ID)
}

func TestPriceCreate_RejectsNonPositivePrice(t *testing.T) {
	f := newPriceFixture(t)

	for _, p := range []int64{0, -5} {
		_, _, err := f.svc.Create(f.vendor, f.createReq(p))
		assert.ErrorIs(t, err, ErrValidation)
	}

	req := f.createReq(0)
	req.ProductID = nil
	req.CustomProduct = &dto.CustomProduct{Name: "Garri", CategoryID: f.catalog.Category.ID, Unit: "per paint bucket"}
	_, _, err := f.svc.Create(f.vendor, req)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, f.count(t))
	var products int64
	require.NoError(t, f.db.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(1), products)
}

func TestPriceCreate_RoleAndInputChecks(t *testing.T) {
	f := newPriceFixture(t)

	_, _, err := f.svc.Create(f.user, f.createReq(100))
	assert.ErrorIs(t, err, ErrPermissionDenied)

	f.vendor.Status = models.UserSuspended
	_, _, err = f.svc.Create(f.vendor, f.createReq(100))
	assert.ErrorIs(t, err, ErrUnauthorized)
	f.vendor.Status = models.UserActive

	req := f.createReq(100)
	req.Unit = "  "
	_, _, err = f.svc.Create(f.vendor, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = f.createReq(100)
	missing := uuid.New()
	req.MarketID = &missing
	_, _, err = f.svc.Create(f.vendor, req)
	assert.ErrorIs(t, err, ErrNotFound)

	req = f.createReq(100)
	req.ProductID = nil
	req.CustomProduct = &dto.CustomProduct{Name: "Garri", CategoryID: uuid.New(), Unit: "per bucket"}
	_, _, err = f.svc.Create(f.vendor, req)
	assert.ErrorIs(t, err, ErrNotFound)

	req = f.createReq(100)
	req.MarketID = nil
	req.CustomMarket = &dto.CustomMarket{Name: "Oja Oba"}
	_, _, err = f.svc.Create(f.vendor, req)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, f.count(t))
}

func TestPriceCreate_CustomCatalog(t *testing.T) {
	f := newPriceFixture(t)

	req := f.createReq(1800)
	req.ProductID = nil
	req.MarketID = nil
	req.CustomProduct = &dto.CustomProduct{Name: "Garri", CategoryID: f.catalog.Category.ID, Unit: "per paint bucket"}
	req.CustomMarket = &dto.CustomMarket{Name: "Oja Oba", Location: "Ilorin", Region: "Kwara State"}

	entry, _, err := f.svc.Create(f.vendor, req)
	require.NoError(t, err)
	require.NotNil(t, entry.Product)
	require.NotNil(t, entry.Market)
	assert.Equal(t, "Garri", entry.Product.Name)
	assert.Equal(t, f.catalog.Category.ID, entry.Product.CategoryID)
	assert.Equal(t, "Kwara State", entry.Market.Region)
}

func TestPriceCreate_UpdateFlow(t *testing.T) {
	f := newPriceFixture(t)
	original := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusApproved)

	req := f.createReq(47500)
	req.IsUpdate = true
	req.OriginalEntryID = &original.ID
	req.Notes = strPtr("Prices went up this week")

	entry, effects, err := f.svc.Create(f.vendor, req)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, entry.ID)
	assert.Equal(t, models.StatusPending, entry.Status)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "Price update: Prices went up this week", *entry.Notes)

	require.Len(t, effects, 1)
	assert.Equal(t, AudienceAdmins, effects[0].Audience)
	assert.Equal(t, models.NotifyVendorPriceUpdate, effects[0].Type)
	assert.Equal(t, "Vendor Price Update", effects[0].Title)
	assert.Equal(t, "John Vendor submitted an update for Rice (Local) at Mile 12 Market (₦47,500)", effects[0].Message)
	assert.Equal(t, original.ID, effects[0].Data["originalEntryId"])

	var stored models.PriceEntry
	require.NoError(t, f.db.First(&stored, "id = ?", original.ID).Error)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.True(t, stored.Price.Equal(decimal.NewFromInt(45000)))

	req.Notes = nil
	entry, _, err = f.svc.Create(f.vendor, req)
	require.NoError(t, err)
	assert.Equal(t, "Price update submitted by vendor", *entry.Notes)
}

func TestPriceCreate_UpdateFlowChecksOriginal(t *testing.T) {
	f := newPriceFixture(t)
	pending := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusPending)
	foreign := testutil.CreateEntry(t, f.db, f.catalog, f.other, 45000, models.StatusApproved)
	missing := uuid.New()

	cases := []struct {
		name   string
		target *uuid.UUID
		kind   error
	}{
		{"missing", &missing, ErrNotFound},
		{"not owner", &foreign.ID, ErrPermissionDenied},
		{"not approved", &pending.ID, ErrValidation},
		{"no reference", nil, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.createReq(50000)
			req.IsUpdate = true
			req.OriginalEntryID = tc.target
			_, _, err := f.svc.Create(f.vendor, req)
			assert.ErrorIs(t, err, tc.kind)
		})
	}
	assert.Equal(t, int64(2), f.count(t))
}

func TestPriceReview_NotifiesSubmitter(t *testing.T) {
	f := newPriceFixture(t)
	entry := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusPending)

	approved, effects, err := f.svc.Review(entry.ID, f.admin, &dto.ReviewPriceEntryRequest{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, f.admin.ID, *approved.ReviewedBy)

	require.Len(t, effects, 1)
	assert.Equal(t, AudienceUser, effects[0].Audience)
	assert.Equal(t, f.vendor.ID, effects[0].RecipientID)
	assert.Equal(t, models.NotifyPriceApproved, effects[0].Type)
	assert.Equal(t, "✅ Price Entry Approved", effects[0].Title)
	assert.Equal(t, "Your price entry for Rice (Local) at Mile 12 Market (₦45,000) has been approved and is now live on the platform.", effects[0].Message)

	rejected, effects, err := f.svc.Review(entry.ID, f.admin, &dto.ReviewPriceEntryRequest{Status: models.StatusRejected, Notes: strPtr("Too high")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	require.Len(t, effects, 1)
	assert.Equal(t, models.NotifyPriceRejected, effects[0].Type)
	assert.Contains(t, effects[0].Message, "has been rejected. Reason: Too high")
	assert.Equal(t, "Too high", effects[0].Data["adminNotes"])
}

func TestPriceReview_IdempotentApartFromReviewedAt(t *testing.T) {
	f := newPriceFixture(t)
	entry := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusPending)
	req := &dto.ReviewPriceEntryRequest{Status: models.StatusApproved, Notes: strPtr("ok")}

	_, _, err := f.svc.Review(entry.ID, f.admin, req)
	require.NoError(t, err)

	later := t0.Add(3 * time.Hour)
	f.svc.now = func() time.Time { return later }
	_, _, err = f.svc.Review(entry.ID, f.admin, req)
	require.NoError(t, err)

	var stored models.PriceEntry
	require.NoError(t, f.db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, "ok", *stored.Notes)
	require.NotNil(t, stored.ReviewedAt)
	assert.True(t, stored.ReviewedAt.Equal(later))
}

func TestPriceReview_RequiresAdminAndDecision(t *testing.T) {
	f := newPriceFixture(t)
	entry := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusPending)

	_, _, err := f.svc.Review(entry.ID, f.vendor, &dto.ReviewPriceEntryRequest{Status: models.StatusApproved})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = f.svc.Review(entry.ID, f.admin, &dto.ReviewPriceEntryRequest{Status: models.StatusPending})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = f.svc.Review(uuid.New(), f.admin, &dto.ReviewPriceEntryRequest{Status: models.StatusApproved})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPriceEdit_OwnerEditResetsToPending(t *testing.T) {
	f := newPriceFixture(t)
	entry := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusApproved)

	edited, effects, err := f.svc.Edit(entry.ID, f.vendor, &dto.PriceEntryPatch{Price: decimalPtr(46000)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, edited.Status)
	assert.Nil(t, edited.ReviewedAt)

	require.Len(t, effects, 1)
	assert.Equal(t, AudienceAdmins, effects[0].Audience)
	assert.Equal(t, models.NotifyPriceUpdated, effects[0].Type)

	var stored models.PriceEntry
	require.NoError(t, f.db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.True(t, stored.Price.Equal(decimal.NewFromInt(46000)))
}

func TestPriceEdit_NotesOnlyResetsWithoutNotifying(t *testing.T) {
	f := newPriceFixture(t)
	entry := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusApproved)

	edited, effects, err := f.svc.Edit(entry.ID, f.vendor, &dto.PriceEntryPatch{Notes: strPtr("fresh stock")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, edited.Status)
	assert.Empty(t, effects)
}

func TestPriceEdit_OwnerLimits(t *testing.T) {
	f := newPriceFixture(t)
	entry := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusPending)
	rejected := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusRejected)

	approved := models.StatusApproved
	_, _, err := f.svc.Edit(entry.ID, f.vendor, &dto.PriceEntryPatch{Status: &approved})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = f.svc.Edit(rejected.ID, f.vendor, &dto.PriceEntryPatch{Price: decimalPtr(40000)})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = f.svc.Edit(entry.ID, f.other, &dto.PriceEntryPatch{Price: decimalPtr(40000)})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = f.svc.Edit(entry.ID, f.vendor, &dto.PriceEntryPatch{})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = f.svc.Edit(uuid.New(), f.vendor, &dto.PriceEntryPatch{Price: decimalPtr(40000)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPriceEdit_NonPositivePriceAltersNothing(t *testing.T) {
	f := newPriceFixture(t)
	entry := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusApproved)

	_, _, err := f.svc.Edit(entry.ID, f.vendor, &dto.PriceEntryPatch{Price: decimalPtr(0), Notes: strPtr("typo")})
	assert.ErrorIs(t, err, ErrValidation)

	var stored models.PriceEntry
	require.NoError(t, f.db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.True(t, stored.Price.Equal(decimal.NewFromInt(45000)))
	assert.Nil(t, stored.Notes)
}

func TestPriceEdit_AdminStatusIsReview(t *testing.T) {
	f := newPriceFixture(t)
	entry := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusPending)

	rejected := models.StatusRejected
	edited, effects, err := f.svc.Edit(entry.ID, f.admin, &dto.PriceEntryPatch{Status: &rejected, Notes: strPtr("Blurry receipt")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, edited.Status)
	require.Len(t, effects, 1)
	assert.Equal(t, f.vendor.ID, effects[0].RecipientID)
	assert.Equal(t, models.NotifyPriceRejected, effects[0].Type)

	_, _, err = f.svc.Edit(entry.ID, f.admin, &dto.PriceEntryPatch{Price: decimalPtr(1)})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestPriceDelete_Permissions(t *testing.T) {
	f := newPriceFixture(t)
	mine := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 45000, models.StatusApproved)
	require.NoError(t, f.db.Create(&models.Attachment{
		Filename: "r.jpg", OriginalName: "receipt.jpg", MimeType: "image/jpeg", Size: 10, URL: "/uploads/r.jpg", PriceEntryID: mine.ID,
	}).Error)
	theirs := testutil.CreateEntry(t, f.db, f.catalog, f.other, 45000, models.StatusApproved)

	assert.ErrorIs(t, f.svc.Delete(theirs.ID, f.vendor), ErrPermissionDenied)
	require.NoError(t, f.svc.Delete(mine.ID, f.vendor))
	require.NoError(t, f.svc.Delete(theirs.ID, f.admin))
	assert.ErrorIs(t, f.svc.Delete(theirs.ID, f.admin), ErrNotFound)

	var attachments int64
	require.NoError(t, f.db.Model(&models.Attachment{}).Count(&attachments).Error)
	assert.Zero(t, attachments)
	assert.Zero(t, f.count(t))
}

func TestPriceVisibility(t *testing.T) {
	f := newPriceFixture(t)
	approved := testutil.CreateEntry(t, f.db, f.catalog, f.other, 100, models.StatusApproved)
	ownPending := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 200, models.StatusPending)
	ownRejected := testutil.CreateEntry(t, f.db, f.catalog, f.vendor, 300, models.StatusRejected)
	otherPending := testutil.CreateEntry(t, f.db, f.catalog, f.other, 400, models.StatusPending)

	ids := func(viewer *models.User, status string) []uuid.UUID {
		page, err := f.svc.List(viewer, &dto.PriceFilters{Status: status})
		require.NoError(t, err)
		out := make([]uuid.UUID, 0, len(page.Data))
		for _, e := range page.Data {
			out = append(out, e.ID)
		}
		return out
	}

	assert.ElementsMatch(t, []uuid.UUID{approved.ID}, ids(nil, ""))
	assert.ElementsMatch(t, []uuid.UUID{approved.ID}, ids(f.user, "PENDING"))
	assert.ElementsMatch(t, []uuid.UUID{approved.ID, ownPending.ID, ownRejected.ID}, ids(f.vendor, ""))
	assert.ElementsMatch(t, []uuid.UUID{approved.ID, otherPending.ID}, ids(f.other, ""))
	assert.ElementsMatch(t, []uuid.UUID{approved.ID, ownPending.ID, ownRejected.ID, otherPending.ID}, ids(f.admin, "ALL"))
	assert.ElementsMatch(t, []uuid.UUID{ownPending.ID, otherPending.ID}, ids(f.admin, "PENDING"))

	_, err := f.svc.Get(otherPending.ID, f.vendor)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Get(ownPending.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := f.svc.Get(ownPending.ID, f.vendor)
	require.NoError(t, err)
	assert.Equal(t, ownPending.ID, got.ID)
	_, err = f.svc.Get(approved.ID, nil)
	assert.NoError(t, err)
}

func TestPriceList_FiltersAndPagination(t *testing.T) {
	f := newPriceFixture(t)

	beans := &models.Product{Name: "Beans (Brown)", CategoryID: f.catalog.Category.ID, Unit: "per bag (100kg)"}
	require.NoError(t, f.db.Create(beans).Error)
	kano := &models.Market{Name: "Kurmi Market", Location: "Kano", Region: "Kano State"}
	require.NoError(t, f.db.Create(kano).Error)

	for i := int64(1); i <= 12; i++ {
		testutil.CreateEntry(t, f.db, f.catalog, f.vendor, i*1000, models.StatusApproved)
	}
	other := &testutil.Catalog{Category: f.catalog.Category, Product: beans, Market: kano}
	testutil.CreateEntry(t, f.db, other, f.vendor, 88000, models.StatusApproved)

	page, err := f.svc.List(nil, &dto.PriceFilters{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, dto.Pagination{Page: 1, Limit: 10, Total: 13, TotalPages: 2}, page.Pagination)

	page, err = f.svc.List(nil, &dto.PriceFilters{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Data, 3)

	page, err = f.svc.List(nil, &dto.PriceFilters{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Pagination.Limit)

	page, err = f.svc.List(nil, &dto.PriceFilters{ProductName: "Beans"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Beans (Brown)", page.Data[0].Product.Name)

	page, err = f.svc.List(nil, &dto.PriceFilters{Region: "Kano"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)

	page, err = f.svc.List(nil, &dto.PriceFilters{MarketID: &f.catalog.Market.ID, MinPrice: decimalPtr(5000), MaxPrice: decimalPtr(8000)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Pagination.Total)
}

func TestVendorUpdateScenario(t *testing.T) {
	f := newPriceFixture(t)
	secondAdmin := testutil.CreateUser(t, f.db, "Second Admin", "ops@demo.com", models.RoleAdmin)
	notifier := NewNotificationService(f.db)

	entry, effects, err := f.svc.Create(f.vendor, f.createReq(45000))
	require.NoError(t, err)
	notifier.Dispatch(effects)
	assert.Equal(t, models.StatusPending, entry.Status)

	_, effects, err = f.svc.Review(entry.ID, f.admin, &dto.ReviewPriceEntryRequest{Status: models.StatusApproved})
	require.NoError(t, err)
	notifier.Dispatch(effects)

	vendorNotes, err := notifier.ListFor(f.vendor.ID, 0)
	require.NoError(t, err)
	require.Len(t, vendorNotes, 1)
	assert.Equal(t, models.NotifyPriceApproved, vendorNotes[0].Type)

	edited, effects, err := f.svc.Edit(entry.ID, f.vendor, &dto.PriceEntryPatch{Price: decimalPtr(47000)})
	require.NoError(t, err)
	notifier.Dispatch(effects)
	assert.Equal(t, models.StatusPending, edited.Status)

	for _, admin := range []*models.User{f.admin, secondAdmin} {
		list, err := notifier.ListFor(admin.ID, 0)
		require.NoError(t, err)
		require.Len(t, list, 1, admin.Email)
		assert.Equal(t, models.NotifyPriceUpdated, list[0].Type)
	}

	others, err := notifier.ListFor(f.other.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, others)
}
