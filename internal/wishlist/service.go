package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the per-user saved products list.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
}

// ItemDTO is one saved product.
type ItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	SavedAt   time.Time `json:"saved_at"`
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productReader
}

// ServiceParams bundles the dependencies required to build a wishlist service.
type ServiceParams struct {
	Repo        *Repository
	ProductRepo productReader
}

// NewService constructs a wishlist service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wishlist repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{repo: params.Repo, products: params.ProductRepo}, nil
}

// Add saves a product. Saving the same product twice is a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.repo.Add(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save wishlist item")
	}
	return nil
}

// Remove drops a saved product.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	affected, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove wishlist item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}

// List returns the user's saved products newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list wishlist")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ItemDTO{ProductID: item.ProductID, SavedAt: item.CreatedAt})
	}
	return dtos, nil
}
