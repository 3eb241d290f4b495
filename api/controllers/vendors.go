package controllers

import (
	"net/http"

	"github.com/dmwangi/sokoni-backend/api/middleware"
	"github.com/dmwangi/sokoni-backend/api/responses"
	"github.com/dmwangi/sokoni-backend/api/validators"
	vendorsvc "github.com/dmwangi/sokoni-backend/internal/vendors"
	"github.com/dmwangi/sokoni-backend/pkg/logger"
)

type vendorApplyRequest struct {
	BusinessName  string `json:"business_name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	CoverImageURL string `json:"cover_image_url" validate:"required"`
	Location      string `json:"location" validate:"required"`
	Description   string `json:"description" validate:"required"`
}

// VendorApply submits a vendor application for the authenticated user.
func VendorApply(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := middleware.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendorApplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Apply(r.Context(), actor, vendorsvc.ApplyInput{
			BusinessName:  body.BusinessName,
			Phone:         body.Phone,
			CoverImageURL: body.CoverImageURL,
			Location:      body.Location,
			Description:   body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "application submitted", application)
	}
}

// AdminListApplications returns applications, optionally filtered by status.
func AdminListApplications(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := validators.ParseQueryModerationStatus(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applications, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "applications fetched", applications)
	}
}

// AdminDecideApplication approves or rejects a pending application. Approval
// promotes the applicant in the same transaction.
func AdminDecideApplication(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applicationID, err := validators.ParsePathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body moderationDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := body.parse()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		application, err := svc.Decide(r.Context(), applicationID, action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "decision recorded", application)
	}
}
