package products

import (
	"context"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new listing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the listing without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindWithHistory loads the listing with its price changes oldest first.
func (r *Repository) FindWithHistory(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("PriceChanges", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListApproved returns publicly visible listings newest first, optionally
// narrowed to one category, along with the total match count.
func (r *Repository) ListApproved(ctx context.Context, category *string, params pagination.Params) ([]models.Product, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("moderation_status = ?", enums.ModerationStatusApproved)
	if category != nil && *category != "" {
		base = base.Where("category = ?", *category)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Order("created_at DESC")
	if !params.Unlimited() {
		query = query.Offset(params.Offset()).Limit(params.Normalize().PageSize)
	}

	var listings []models.Product
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// ListByStatus returns listings in the given review state newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ModerationStatus) ([]models.Product, error) {
	var listings []models.Product
	if err := r.db.WithContext(ctx).
		Where("moderation_status = ?", status).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListByVendor returns all of a vendor's listings regardless of status.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var listings []models.Product
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdatePrice overwrites the current price.
func (r *Repository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("price", price).Error
}

// InsertPriceChange appends a history entry for the superseded price.
func (r *Repository) InsertPriceChange(ctx context.Context, change *models.PriceChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

// UpdateDetails overwrites the mutable listing columns.
func (r *Repository) UpdateDetails(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(columns).Error
}

// UpdateAvailability flips the stock axis.
func (r *Repository) UpdateAvailability(ctx context.Context, id uuid.UUID, availability enums.Availability) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("availability", availability).Error
}

// UpdateModerationStatus records a review decision.
func (r *Repository) UpdateModerationStatus(ctx context.Context, id uuid.UUID, status enums.ModerationStatus, decidedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"moderation_status": status, "updated_at": decidedAt}).Error
}

// Delete removes the listing; history rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// CountByVendorAndStatus groups the vendor's listings by review state.
func (r *Repository) CountByVendorAndStatus(ctx context.Context, vendorID uuid.UUID) (map[enums.ModerationStatus]int64, error) {
	type row struct {
		ModerationStatus enums.ModerationStatus
		Total            int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("moderation_status, COUNT(*) AS total").
		Where("vendor_id = ?", vendorID).
		Group("moderation_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[enums.ModerationStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.ModerationStatus] = r.Total
	}
	return counts, nil
}

// CountAdsByVendorAndStatus groups the vendor's ad requests by review state.
func (r *Repository) CountAdsByVendorAndStatus(ctx context.Context, vendorID uuid.UUID) (map[enums.ModerationStatus]int64, error) {
	type row struct {
		Status enums.ModerationStatus
		Total  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.AdSlot{}).
		Select("status, COUNT(*) AS total").
		Where("vendor_id = ?", vendorID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[enums.ModerationStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
