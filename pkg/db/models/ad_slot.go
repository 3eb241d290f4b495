package models

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdSlot is an advertisement request tying one vendor to one product. The
// unique index on product_id enforces one ad per product regardless of status.
type AdSlot struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	VendorID  uuid.UUID              `gorm:"column:vendor_id;type:uuid;not null;index:ad_slots_vendor_id_idx"`
	ProductID uuid.UUID              `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ad_slots_product_id_key"`
	Title     string                 `gorm:"column:title;not null"`
	ImageURL  string                 `gorm:"column:image_url;not null"`
	Notes     *string                `gorm:"column:notes"`
	StartDate time.Time              `gorm:"column:start_date;not null"`
	EndDate   time.Time              `gorm:"column:end_date;not null"`
	Status    enums.ModerationStatus `gorm:"column:status;type:text;not null;default:pending"`
	DecidedAt *time.Time             `gorm:"column:decided_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *AdSlot) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
