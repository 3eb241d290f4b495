package ads

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/google/uuid"
)

// AdSlotDTO is the ad request payload returned to clients.
type AdSlotDTO struct {
	ID        uuid.UUID  `json:"id"`
	VendorID  uuid.UUID  `json:"vendor_id"`
	ProductID uuid.UUID  `json:"product_id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"image_url"`
	Notes     *string    `json:"notes,omitempty"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Status    string     `json:"status"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// FromModel maps the persisted ad request to its DTO.
func FromModel(ad *models.AdSlot) *AdSlotDTO {
	if ad == nil {
		return nil
	}
	return &AdSlotDTO{
		ID:        ad.ID,
		VendorID:  ad.VendorID,
		ProductID: ad.ProductID,
		Title:     ad.Title,
		ImageURL:  ad.ImageURL,
		Notes:     ad.Notes,
		StartDate: ad.StartDate,
		EndDate:   ad.EndDate,
		Status:    ad.Status.String(),
		DecidedAt: ad.DecidedAt,
		CreatedAt: ad.CreatedAt,
	}
}
