package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmwangi/sokoni-backend/internal/moderation"
	"github.com/dmwangi/sokoni-backend/pkg/auth"
	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the vendor onboarding workflow.
type Service interface {
	Apply(ctx context.Context, actor auth.Actor, input ApplyInput) (*ApplicationDTO, error)
	List(ctx context.Context, status *enums.ModerationStatus) ([]ApplicationDTO, error)
	Decide(ctx context.Context, applicationID uuid.UUID, action enums.ModerationAction) (*ApplicationDTO, error)
}

// ApplyInput holds the business profile submitted by an aspiring vendor.
type ApplyInput struct {
	BusinessName  string
	Phone         string
	CoverImageURL string
	Location      string
	Description   string
}

// RoleUpdater is the slice of the accounts surface the approval hook needs.
type RoleUpdater interface {
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	accounts func(tx *gorm.DB) RoleUpdater
}

// ServiceParams bundles the dependencies required to build a vendors service.
type ServiceParams struct {
	Repo     *Repository
	DBClient *db.Client
	// AccountsForTx returns a role updater bound to the given transaction so
	// approval can promote the applicant atomically with the status flip.
	AccountsForTx func(tx *gorm.DB) RoleUpdater
}

// NewService constructs a vendors service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("vendors repository is required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.AccountsForTx == nil {
		return nil, fmt.Errorf("accounts factory is required")
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DBClient,
		accounts: params.AccountsForTx,
	}, nil
}

// Apply submits a vendor application. Only plain users may apply; a vendor
// has nothing to apply for and an admin should not hold listings. One active
// application per applicant is enforced by the partial unique index, so a
// concurrent duplicate still comes back as a conflict.
func (s *service) Apply(ctx context.Context, actor auth.Actor, input ApplyInput) (*ApplicationDTO, error) {
	if actor.Role != enums.UserRoleUser {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only regular users can apply to become vendors")
	}
	if err := validateApplyInput(input); err != nil {
		return nil, err
	}

	application := &models.VendorApplication{
		ApplicantID:   actor.ID,
		BusinessName:  strings.TrimSpace(input.BusinessName),
		Phone:         strings.TrimSpace(input.Phone),
		CoverImageURL: strings.TrimSpace(input.CoverImageURL),
		Location:      strings.TrimSpace(input.Location),
		Description:   strings.TrimSpace(input.Description),
		Status:        enums.ModerationStatusPending,
	}

	created, err := s.repo.Create(ctx, application)
	if err != nil {
		if db.IsUniqueViolation(err, "vendor_applications_active_applicant_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an active application already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert application")
	}
	return FromModel(created), nil
}

// List returns applications for the admin review queue.
func (s *service) List(ctx context.Context, status *enums.ModerationStatus) ([]ApplicationDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *status))
	}

	applications, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list applications")
	}

	dtos := make([]ApplicationDTO, 0, len(applications))
	for i := range applications {
		dtos = append(dtos, *FromModel(&applications[i]))
	}
	return dtos, nil
}

// Decide applies a review action. Approval promotes the applicant to vendor
// in the same transaction; if the promotion fails the application stays
// pending.
func (s *service) Decide(ctx context.Context, applicationID uuid.UUID, action enums.ModerationAction) (*ApplicationDTO, error) {
	wf := &workflow{repo: s.repo, accounts: s.accounts}
	if _, err := moderation.Decide(ctx, s.dbClient, wf, applicationID, action); err != nil {
		return nil, err
	}

	application, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load application")
	}
	return FromModel(application), nil
}

func validateApplyInput(input ApplyInput) error {
	required := map[string]string{
		"business_name":   input.BusinessName,
		"phone":           input.Phone,
		"cover_image_url": input.CoverImageURL,
		"location":        input.Location,
		"description":     input.Description,
	}
	missing := []string{}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}
