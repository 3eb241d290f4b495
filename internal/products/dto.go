package products

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the listing payload returned to clients.
type ProductDTO struct {
	ID               uuid.UUID        `json:"id"`
	VendorID         uuid.UUID        `json:"vendor_id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	Price            decimal.Decimal  `json:"price"`
	Stock            int              `json:"stock"`
	ImageURL         *string          `json:"image_url,omitempty"`
	ModerationStatus string           `json:"moderation_status"`
	Availability     string           `json:"availability"`
	PriceHistory     []PriceChangeDTO `json:"price_history,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// PriceChangeDTO is one superseded price.
type PriceChangeDTO struct {
	Price     decimal.Decimal `json:"price"`
	ChangedAt time.Time       `json:"changed_at"`
}

// ProductListResult combines a catalog page with its metadata.
type ProductListResult struct {
	Products []ProductDTO    `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}

// VendorStatsDTO summarizes a vendor's listings and ad requests by state.
type VendorStatsDTO struct {
	Products StatusCounts `json:"products"`
	Ads      StatusCounts `json:"ads"`
}

// StatusCounts breaks a total down by review state.
type StatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// FromModel maps the persisted listing to its DTO.
func FromModel(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:               product.ID,
		VendorID:         product.VendorID,
		Name:             product.Name,
		Description:      product.Description,
		Category:         product.Category,
		Price:            product.Price,
		Stock:            product.Stock,
		ImageURL:         product.ImageURL,
		ModerationStatus: product.ModerationStatus.String(),
		Availability:     product.Availability.String(),
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
	for _, change := range product.PriceChanges {
		dto.PriceHistory = append(dto.PriceHistory, PriceChangeDTO{
			Price:     change.Price,
			ChangedAt: change.ChangedAt,
		})
	}
	return dto
}
