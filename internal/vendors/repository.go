package vendors

import (
	"context"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes vendor application persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a vendors repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new application. The partial unique index rejects it when
// a pending or approved application already exists for the applicant.
func (r *Repository) Create(ctx context.Context, application *models.VendorApplication) (*models.VendorApplication, error) {
	if err := r.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

// FindByID loads an application.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error) {
	var application models.VendorApplication
	if err := r.db.WithContext(ctx).First(&application, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// List returns applications newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.ModerationStatus) ([]models.VendorApplication, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var applications []models.VendorApplication
	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// UpdateStatus records a review decision.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ModerationStatus, decidedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.VendorApplication{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "decided_at": decidedAt}).Error
}
