package vendors

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ApplicationDTO is the vendor application payload returned to clients.
type ApplicationDTO struct {
	ID            uuid.UUID  `json:"id"`
	ApplicantID   uuid.UUID  `json:"applicant_id"`
	BusinessName  string     `json:"business_name"`
	Phone         string     `json:"phone"`
	CoverImageURL string     `json:"cover_image_url"`
	Location      string     `json:"location"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// FromModel maps the persisted application to its DTO.
func FromModel(application *models.VendorApplication) *ApplicationDTO {
	if application == nil {
		return nil
	}
	return &ApplicationDTO{
		ID:            application.ID,
		ApplicantID:   application.ApplicantID,
		BusinessName:  application.BusinessName,
		Phone:         application.Phone,
		CoverImageURL: application.CoverImageURL,
		Location:      application.Location,
		Description:   application.Description,
		Status:        application.Status.String(),
		DecidedAt:     application.DecidedAt,
		CreatedAt:     application.CreatedAt,
	}
}
