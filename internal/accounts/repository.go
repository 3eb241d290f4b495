package accounts

import (
	"context"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new account and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads an account by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByFirebaseUID retrieves the account owning the identity provider uid.
func (r *Repository) FindByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", uid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves the account matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateFirebaseUID relinks an existing account to a provider uid.
func (r *Repository) UpdateFirebaseUID(ctx context.Context, id uuid.UUID, uid string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("firebase_uid", uid).Error
}

// UpdateProfile overwrites the mutable profile columns.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string, photoURL *string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"display_name": displayName,
			"photo_url":    photoURL,
		}).Error
}

// UpdateRole overwrites the account role.
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("role", role).Error
}

// UpdateBanState writes the ban flag together with its reason and date.
// Lifting a ban clears both companion columns.
func (r *Repository) UpdateBanState(ctx context.Context, id uuid.UUID, banned bool, reason *string, at *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"banned":     banned,
			"ban_reason": reason,
			"ban_date":   at,
		}).Error
}

// List returns accounts ordered newest first along with the total count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if !params.Unlimited() {
		query = query.Offset(params.Offset()).Limit(params.Normalize().PageSize)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Stats aggregates the admin dashboard counters.
func (r *Repository) Stats(ctx context.Context) (*StatsRow, error) {
	row := &StatsRow{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&row.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", enums.UserRoleVendor).Count(&row.Vendors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Count(&row.Products).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&row.Orders).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// StatsRow carries the raw admin counters.
type StatsRow struct {
	Users    int64
	Vendors  int64
	Products int64
	Orders   int64
}
