package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/auth"
	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  moderation_status TEXT NOT NULL DEFAULT 'pending',
  availability TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE product_price_changes (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  changed_at DATETIME NOT NULL
);`, `
CREATE TABLE ad_slots (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  product_id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  image_url TEXT NOT NULL,
  notes TEXT,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  decided_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newProductsService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		DBClient: db.FromGorm(conn),
	})
	require.NoError(t, err)
	return svc
}

func vendorActor() auth.Actor {
	return auth.Actor{ID: uuid.New(), Role: enums.UserRoleVendor}
}

func validInput() CreateProductInput {
	return CreateProductInput{
		Name:        "Woven Basket",
		Description: "Handmade sisal basket",
		Category:    "crafts",
		Price:       decimal.RequireFromString("24.50"),
		Stock:       10,
	}
}

func TestCreateProduct(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	actor := vendorActor()

	t.Run("startsPending", func(t *testing.T) {
		created, err := svc.Create(context.Background(), actor, validInput())
		require.NoError(t, err)
		assert.Equal(t, enums.ModerationStatusPending.String(), created.ModerationStatus)
		assert.Equal(t, enums.AvailabilityActive.String(), created.Availability)
		assert.Equal(t, actor.ID, created.VendorID)
	})

	t.Run("plainUserForbidden", func(t *testing.T) {
		_, err := svc.Create(context.Background(), auth.Actor{ID: uuid.New(), Role: enums.UserRoleUser}, validInput())
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	})

	t.Run("negativePrice", func(t *testing.T) {
		input := validInput()
		input.Price = decimal.RequireFromString("-1")
		_, err := svc.Create(context.Background(), actor, input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("missingFields", func(t *testing.T) {
		input := validInput()
		input.Name = "  "
		_, err := svc.Create(context.Background(), actor, input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})
}

func TestUpdatePriceKeepsFullHistory(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	actor := vendorActor()

	input := validInput()
	input.Price = decimal.NewFromInt(10)
	created, err := svc.Create(context.Background(), actor, input)
	require.NoError(t, err)

	// three updates: history must hold the three superseded prices in order
	prices := []string{"12.00", "15.50", "9.99"}
	for _, p := range prices {
		_, err := svc.UpdatePrice(context.Background(), actor, created.ID, decimal.RequireFromString(p))
		require.NoError(t, err)
	}

	loaded, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Price.Equal(decimal.RequireFromString("9.99")))
	require.Len(t, loaded.PriceHistory, 3)
	assert.True(t, loaded.PriceHistory[0].Price.Equal(decimal.NewFromInt(10)))
	assert.True(t, loaded.PriceHistory[1].Price.Equal(decimal.RequireFromString("12.00")))
	assert.True(t, loaded.PriceHistory[2].Price.Equal(decimal.RequireFromString("15.50")))
}

func TestUpdatePriceAuthorization(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	owner := vendorActor()

	created, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)

	t.Run("strangerForbidden", func(t *testing.T) {
		_, err := svc.UpdatePrice(context.Background(), vendorActor(), created.ID, decimal.NewFromInt(5))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	})

	t.Run("adminAllowed", func(t *testing.T) {
		admin := auth.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}
		updated, err := svc.UpdatePrice(context.Background(), admin, created.ID, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.True(t, updated.Price.Equal(decimal.NewFromInt(5)))
	})

	t.Run("negative", func(t *testing.T) {
		_, err := svc.UpdatePrice(context.Background(), owner, created.ID, decimal.NewFromInt(-5))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.UpdatePrice(context.Background(), owner, uuid.New(), decimal.NewFromInt(5))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	})
}

func seedApprovedProducts(t *testing.T, conn *gorm.DB, vendorID uuid.UUID, n int) {
	t.Helper()

	base := time.Now().UTC().Add(-24 * time.Hour)
	for i := 0; i < n; i++ {
		product := &models.Product{
			VendorID:         vendorID,
			Name:             fmt.Sprintf("Listing %02d", i),
			Description:      "seeded",
			Category:         "crafts",
			Price:            decimal.NewFromInt(int64(i + 1)),
			ModerationStatus: enums.ModerationStatusApproved,
			Availability:     enums.AvailabilityActive,
		}
		require.NoError(t, conn.Create(product).Error)
		require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", product.ID).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}
}

func TestListApprovedPagination(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	vendorID := uuid.New()
	seedApprovedProducts(t, conn, vendorID, 25)

	// one hidden pending product must never show up
	pending := &models.Product{
		VendorID:         vendorID,
		Name:             "Hidden",
		Description:      "pending",
		Category:         "crafts",
		Price:            decimal.NewFromInt(1),
		ModerationStatus: enums.ModerationStatusPending,
		Availability:     enums.AvailabilityActive,
	}
	require.NoError(t, conn.Create(pending).Error)

	t.Run("pagedTenOverTwentyFive", func(t *testing.T) {
		page, err := svc.ListApproved(context.Background(), nil, pagination.Params{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, page.Products, 10)
		assert.Equal(t, int64(25), page.Meta.TotalCount)
		assert.Equal(t, 3, page.Meta.TotalPages)
		// newest first
		assert.Equal(t, "Listing 24", page.Products[0].Name)

		last, err := svc.ListApproved(context.Background(), nil, pagination.Params{Page: 3, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, last.Products, 5)
	})

	t.Run("noPageSizeReturnsEverything", func(t *testing.T) {
		all, err := svc.ListApproved(context.Background(), nil, pagination.Params{})
		require.NoError(t, err)
		assert.Len(t, all.Products, 25)
		assert.Equal(t, 1, all.Meta.TotalPages)
	})

	t.Run("categoryFilter", func(t *testing.T) {
		other := "electronics"
		none, err := svc.ListApproved(context.Background(), &other, pagination.Params{})
		require.NoError(t, err)
		assert.Empty(t, none.Products)
	})
}

func TestSetAvailabilityIndependentOfModeration(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	actor := vendorActor()

	created, err := svc.Create(context.Background(), actor, validInput())
	require.NoError(t, err)

	updated, err := svc.SetAvailability(context.Background(), actor, created.ID, enums.AvailabilityOutOfStock)
	require.NoError(t, err)
	assert.Equal(t, enums.AvailabilityOutOfStock.String(), updated.Availability)
	assert.Equal(t, enums.ModerationStatusPending.String(), updated.ModerationStatus)

	_, err = svc.SetAvailability(context.Background(), actor, created.ID, enums.Availability("discontinued"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateDetails(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	actor := vendorActor()

	created, err := svc.Create(context.Background(), actor, validInput())
	require.NoError(t, err)

	name := "Large Woven Basket"
	stock := 3
	updated, err := svc.UpdateDetails(context.Background(), actor, created.ID, UpdateDetailsInput{
		Name:  &name,
		Stock: &stock,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, stock, updated.Stock)
	assert.Equal(t, created.Description, updated.Description)

	empty := " "
	_, err = svc.UpdateDetails(context.Background(), actor, created.ID, UpdateDetailsInput{Name: &empty})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteProduct(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	actor := vendorActor()

	created, err := svc.Create(context.Background(), actor, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), actor, created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.Delete(context.Background(), actor, uuid.New())
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDecideProduct(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	actor := vendorActor()

	created, err := svc.Create(context.Background(), actor, validInput())
	require.NoError(t, err)

	approved, err := svc.Decide(context.Background(), created.ID, enums.ModerationActionApprove)
	require.NoError(t, err)
	assert.Equal(t, enums.ModerationStatusApproved.String(), approved.ModerationStatus)

	// approved listings are sticky; rejecting afterwards conflicts
	_, err = svc.Decide(context.Background(), created.ID, enums.ModerationActionReject)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestVendorStats(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newProductsService(t, conn)
	actor := vendorActor()

	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), actor, validInput())
		require.NoError(t, err)
	}
	approvedInput := validInput()
	created, err := svc.Create(context.Background(), actor, approvedInput)
	require.NoError(t, err)
	_, err = svc.Decide(context.Background(), created.ID, enums.ModerationActionApprove)
	require.NoError(t, err)

	ad := &models.AdSlot{
		VendorID:  actor.ID,
		ProductID: created.ID,
		Title:     "Promo",
		ImageURL:  "https://img.example.com/promo.png",
		StartDate: time.Now().UTC(),
		EndDate:   time.Now().UTC().Add(24 * time.Hour),
		Status:    enums.ModerationStatusPending,
	}
	require.NoError(t, conn.Create(ad).Error)

	stats, err := svc.VendorStats(context.Background(), actor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Products.Total)
	assert.Equal(t, int64(2), stats.Products.Pending)
	assert.Equal(t, int64(1), stats.Products.Approved)
	assert.Equal(t, int64(1), stats.Ads.Pending)
	assert.Equal(t, int64(1), stats.Ads.Total)
}
