package models

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a vendor listing. ModerationStatus governs public visibility;
// Availability is an independent stock axis.
type Product struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	VendorID         uuid.UUID              `gorm:"column:vendor_id;type:uuid;not null;index:products_vendor_id_idx"`
	Name             string                 `gorm:"column:name;not null"`
	Description      string                 `gorm:"column:description;not null"`
	Category         string                 `gorm:"column:category;not null;index:products_category_idx"`
	Price            decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null"`
	Stock            int                    `gorm:"column:stock;not null;default:0"`
	ImageURL         *string                `gorm:"column:image_url"`
	ModerationStatus enums.ModerationStatus `gorm:"column:moderation_status;type:text;not null;default:pending;index:products_moderation_status_idx"`
	Availability     enums.Availability     `gorm:"column:availability;type:text;not null;default:active"`
	PriceChanges     []PriceChange          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PriceChange records the price in effect immediately before a price update.
// The table never contains the current price.
type PriceChange struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index:product_price_changes_product_id_idx"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ChangedAt time.Time       `gorm:"column:changed_at;not null"`
}

func (c *PriceChange) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName keeps the historical table name used by the migrations.
func (PriceChange) TableName() string {
	return "product_price_changes"
}
