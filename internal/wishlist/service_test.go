package wishlist

import (
	"context"
	"testing"

	"github.com/dmwangi/sokoni-backend/internal/products"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
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
CREATE TABLE wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT wishlist_items_user_product_key UNIQUE (user_id, product_id)
);`}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newWishlistService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		ProductRepo: products.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc
}

func seedWishlistProduct(t *testing.T, conn *gorm.DB) uuid.UUID {
	t.Helper()

	product := &models.Product{
		VendorID:         uuid.New(),
		Name:             "Woven Basket",
		Description:      "Handmade sisal basket",
		Category:         "crafts",
		Price:            decimal.NewFromInt(10),
		ModerationStatus: enums.ModerationStatusApproved,
		Availability:     enums.AvailabilityActive,
	}
	require.NoError(t, conn.Create(product).Error)
	return product.ID
}

func TestWishlistAddRemoveList(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newWishlistService(t, conn)
	userID := uuid.New()
	productID := seedWishlistProduct(t, conn)

	require.NoError(t, svc.Add(context.Background(), userID, productID))

	// duplicate add is a no-op, not an error
	require.NoError(t, svc.Add(context.Background(), userID, productID))

	listed, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, productID, listed[0].ProductID)

	require.NoError(t, svc.Remove(context.Background(), userID, productID))

	listed, err = svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestWishlistAddMissingProduct(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newWishlistService(t, conn)

	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestWishlistRemoveMissingItem(t *testing.T) {
	conn := setupWishlistTestDB(t)
	svc := newWishlistService(t, conn)

	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
