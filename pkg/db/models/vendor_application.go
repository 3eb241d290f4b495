package models

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorApplication tracks a user's request to become a vendor. The partial
// unique index allows at most one pending or approved application per
// applicant; a rejected application does not block a fresh submission.
type VendorApplication struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	ApplicantID   uuid.UUID              `gorm:"column:applicant_id;type:uuid;not null;uniqueIndex:vendor_applications_active_applicant_key,where:status IN ('pending','approved')"`
	BusinessName  string                 `gorm:"column:business_name;not null"`
	Phone         string                 `gorm:"column:phone;not null"`
	CoverImageURL string                 `gorm:"column:cover_image_url;not null"`
	Location      string                 `gorm:"column:location;not null"`
	Description   string                 `gorm:"column:description;not null"`
	Status        enums.ModerationStatus `gorm:"column:status;type:text;not null;default:pending"`
	DecidedAt     *time.Time             `gorm:"column:decided_at"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *VendorApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
