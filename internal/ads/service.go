package ads

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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the ad slot request workflow.
type Service interface {
	Request(ctx context.Context, actor auth.Actor, input RequestInput) (*AdSlotDTO, error)
	ListPending(ctx context.Context) ([]AdSlotDTO, error)
	ListActive(ctx context.Context) ([]AdSlotDTO, error)
	Decide(ctx context.Context, adID uuid.UUID, action enums.ModerationAction) (*AdSlotDTO, error)
}

// RequestInput holds the validated payload for a new ad request.
type RequestInput struct {
	ProductID uuid.UUID
	Title     string
	ImageURL  string
	Notes     *string
	StartDate time.Time
	EndDate   time.Time
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	products productReader
}

// ServiceParams bundles the dependencies required to build an ads service.
type ServiceParams struct {
	Repo        *Repository
	DBClient    *db.Client
	ProductRepo productReader
}

// NewService constructs an ads service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("ads repository is required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DBClient,
		products: params.ProductRepo,
	}, nil
}

// Request submits an ad request for one of the vendor's products. A product
// carries at most one ad ever; the unique index settles concurrent requests.
func (s *service) Request(ctx context.Context, actor auth.Actor, input RequestInput) (*AdSlotDTO, error) {
	if actor.Role != enums.UserRoleVendor && actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only vendors can request ads")
	}
	if err := validateRequestInput(input); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product.VendorID != actor.ID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to vendor")
	}

	ad := &models.AdSlot{
		VendorID:  actor.ID,
		ProductID: input.ProductID,
		Title:     strings.TrimSpace(input.Title),
		ImageURL:  strings.TrimSpace(input.ImageURL),
		Notes:     input.Notes,
		StartDate: input.StartDate.UTC(),
		EndDate:   input.EndDate.UTC(),
		Status:    enums.ModerationStatusPending,
	}

	created, err := s.repo.Create(ctx, ad)
	if err != nil {
		if db.IsUniqueViolation(err, "ad_slots_product_id_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an ad already exists for this product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert ad request")
	}
	return FromModel(created), nil
}

// ListPending returns the review queue for moderators.
func (s *service) ListPending(ctx context.Context) ([]AdSlotDTO, error) {
	return s.listByStatus(ctx, enums.ModerationStatusPending)
}

// ListActive returns approved ads for the storefront.
func (s *service) ListActive(ctx context.Context) ([]AdSlotDTO, error) {
	return s.listByStatus(ctx, enums.ModerationStatusApproved)
}

// Decide applies a review action to the ad request.
func (s *service) Decide(ctx context.Context, adID uuid.UUID, action enums.ModerationAction) (*AdSlotDTO, error) {
	if _, err := moderation.Decide(ctx, s.dbClient, &workflow{repo: s.repo}, adID, action); err != nil {
		return nil, err
	}

	ad, err := s.repo.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ad request")
	}
	return FromModel(ad), nil
}

func (s *service) listByStatus(ctx context.Context, status enums.ModerationStatus) ([]AdSlotDTO, error) {
	adSlots, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list ad requests")
	}

	dtos := make([]AdSlotDTO, 0, len(adSlots))
	for i := range adSlots {
		dtos = append(dtos, *FromModel(&adSlots[i]))
	}
	return dtos, nil
}

func validateRequestInput(input RequestInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date are required")
	}
	if !input.EndDate.After(input.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_date must be after start_date")
	}
	return nil
}
