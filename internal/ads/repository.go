package ads

import (
	"context"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes ad slot persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an ads repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new ad request. The unique index on product_id rejects a
// second ad for the same product.
func (r *Repository) Create(ctx context.Context, ad *models.AdSlot) (*models.AdSlot, error) {
	if err := r.db.WithContext(ctx).Create(ad).Error; err != nil {
		return nil, err
	}
	return ad, nil
}

// FindByID loads an ad request.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdSlot, error) {
	var ad models.AdSlot
	if err := r.db.WithContext(ctx).First(&ad, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// ListByStatus returns ad requests in the given review state newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ModerationStatus) ([]models.AdSlot, error) {
	var adSlots []models.AdSlot
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&adSlots).Error; err != nil {
		return nil, err
	}
	return adSlots, nil
}

// UpdateStatus records a review decision.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ModerationStatus, decidedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AdSlot{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "decided_at": decidedAt}).Error
}
