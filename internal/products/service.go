package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmwangi/sokoni-backend/internal/moderation"
	"github.com/dmwangi/sokoni-backend/pkg/auth"
	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog management and moderation operations.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, input CreateProductInput) (*ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListApproved(ctx context.Context, category *string, params pagination.Params) (*ProductListResult, error)
	ListPending(ctx context.Context) ([]ProductDTO, error)
	ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error)
	UpdatePrice(ctx context.Context, actor auth.Actor, productID uuid.UUID, newPrice decimal.Decimal) (*ProductDTO, error)
	UpdateDetails(ctx context.Context, actor auth.Actor, productID uuid.UUID, patch UpdateDetailsInput) (*ProductDTO, error)
	SetAvailability(ctx context.Context, actor auth.Actor, productID uuid.UUID, availability enums.Availability) (*ProductDTO, error)
	Delete(ctx context.Context, actor auth.Actor, productID uuid.UUID) error
	Decide(ctx context.Context, productID uuid.UUID, action enums.ModerationAction) (*ProductDTO, error)
	VendorStats(ctx context.Context, vendorID uuid.UUID) (*VendorStatsDTO, error)
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	ImageURL    *string
}

// UpdateDetailsInput holds optional mutation values for a listing. Price is
// deliberately absent; price moves only through UpdatePrice so the history
// stays complete.
type UpdateDetailsInput struct {
	Name        *string
	Description *string
	Category    *string
	Stock       *int
	ImageURL    *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// ServiceParams bundles the dependencies required to build a products service.
type ServiceParams struct {
	Repo     *Repository
	DBClient *db.Client
}

// NewService constructs a products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &service{repo: params.Repo, dbClient: params.DBClient}, nil
}

// Create submits a new listing. It always enters the review queue as pending
// regardless of who created it.
func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateProductInput) (*ProductDTO, error) {
	if actor.Role != enums.UserRoleVendor && actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only vendors can create listings")
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)
	if name == "" || description == "" || category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, description, and category are required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		VendorID:         actor.ID,
		Name:             name,
		Description:      description,
		Category:         category,
		Price:            input.Price,
		Stock:            input.Stock,
		ImageURL:         input.ImageURL,
		ModerationStatus: enums.ModerationStatusPending,
		Availability:     enums.AvailabilityActive,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return FromModel(created), nil
}

// GetByID loads one listing with its price history.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadWithHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// ListApproved returns the public catalog page. Without a page size the whole
// catalog comes back as a single page.
func (s *service) ListApproved(ctx context.Context, category *string, params pagination.Params) (*ProductListResult, error) {
	listings, total, err := s.repo.ListApproved(ctx, category, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list approved products")
	}

	dtos := make([]ProductDTO, 0, len(listings))
	for i := range listings {
		dtos = append(dtos, *FromModel(&listings[i]))
	}
	return &ProductListResult{Products: dtos, Meta: params.MetaFor(total)}, nil
}

// ListPending returns the review queue for moderators.
func (s *service) ListPending(ctx context.Context) ([]ProductDTO, error) {
	listings, err := s.repo.ListByStatus(ctx, enums.ModerationStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pending products")
	}
	return toDTOs(listings), nil
}

// ListForVendor returns everything a vendor has listed, in any state.
func (s *service) ListForVendor(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error) {
	listings, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list vendor products")
	}
	return toDTOs(listings), nil
}

// UpdatePrice replaces the current price, pushing the superseded value onto
// the history first. Both writes commit or neither does.
func (s *service) UpdatePrice(ctx context.Context, actor auth.Actor, productID uuid.UUID, newPrice decimal.Decimal) (*ProductDTO, error) {
	if newPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product, err := s.loadOwned(ctx, actor, productID)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		change := &models.PriceChange{
			ProductID: product.ID,
			Price:     product.Price,
			ChangedAt: time.Now().UTC(),
		}
		if err := txRepo.InsertPriceChange(ctx, change); err != nil {
			return err
		}
		return txRepo.UpdatePrice(ctx, product.ID, newPrice)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update price")
	}

	return s.GetByID(ctx, productID)
}

// UpdateDetails patches non-price listing fields; ownership enforced.
func (s *service) UpdateDetails(ctx context.Context, actor auth.Actor, productID uuid.UUID, patch UpdateDetailsInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, actor, productID)
	if err != nil {
		return nil, err
	}

	columns, err := buildDetailColumns(patch)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDetails(ctx, product.ID, columns); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product details")
	}
	return s.GetByID(ctx, productID)
}

// SetAvailability flips the stock axis without touching moderation state.
func (s *service) SetAvailability(ctx context.Context, actor auth.Actor, productID uuid.UUID, availability enums.Availability) (*ProductDTO, error) {
	if !availability.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid availability %q", availability))
	}

	product, err := s.loadOwned(ctx, actor, productID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAvailability(ctx, product.ID, availability); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update availability")
	}
	product.Availability = availability
	return FromModel(product), nil
}

// Delete removes the listing and its history.
func (s *service) Delete(ctx context.Context, actor auth.Actor, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, productID); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// Decide applies a review action to the listing. Approval has no side effect
// beyond visibility.
func (s *service) Decide(ctx context.Context, productID uuid.UUID, action enums.ModerationAction) (*ProductDTO, error) {
	if _, err := moderation.Decide(ctx, s.dbClient, &workflow{repo: s.repo}, productID, action); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, productID)
}

// VendorStats summarizes a vendor's listings and ad requests.
func (s *service) VendorStats(ctx context.Context, vendorID uuid.UUID) (*VendorStatsDTO, error) {
	productCounts, err := s.repo.CountByVendorAndStatus(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	adCounts, err := s.repo.CountAdsByVendorAndStatus(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count ads")
	}
	return &VendorStatsDTO{
		Products: statusCountsFrom(productCounts),
		Ads:      statusCountsFrom(adCounts),
	}, nil
}

func (s *service) loadWithHistory(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindWithHistory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

// loadOwned loads the listing and enforces that the actor owns it or is an
// admin.
func (s *service) loadOwned(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product.VendorID != actor.ID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to vendor")
	}
	return product, nil
}

func buildDetailColumns(patch UpdateDetailsInput) (map[string]any, error) {
	columns := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		columns["name"] = name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description cannot be empty")
		}
		columns["description"] = description
	}
	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		columns["category"] = category
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		columns["stock"] = *patch.Stock
	}
	if patch.ImageURL != nil {
		columns["image_url"] = *patch.ImageURL
	}
	return columns, nil
}

func toDTOs(listings []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(listings))
	for i := range listings {
		dtos = append(dtos, *FromModel(&listings[i]))
	}
	return dtos
}

func statusCountsFrom(counts map[enums.ModerationStatus]int64) StatusCounts {
	out := StatusCounts{
		Pending:  counts[enums.ModerationStatusPending],
		Approved: counts[enums.ModerationStatusApproved],
		Rejected: counts[enums.ModerationStatusRejected],
	}
	out.Total = out.Pending + out.Approved + out.Rejected
	return out
}
