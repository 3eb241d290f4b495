package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmwangi/sokoni-backend/api/middleware"
	"github.com/dmwangi/sokoni-backend/api/responses"
	"github.com/dmwangi/sokoni-backend/api/validators"
	adsvc "github.com/dmwangi/sokoni-backend/internal/ads"
	"github.com/dmwangi/sokoni-backend/pkg/logger"
)

type adRequestBody struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	ImageURL  string    `json:"image_url" validate:"required"`
	Notes     *string   `json:"notes,omitempty"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// VendorRequestAd submits an ad slot request for one of the caller's
// products.
func VendorRequestAd(svc adsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := middleware.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ad, err := svc.Request(r.Context(), actor, adsvc.RequestInput{
			ProductID: body.ProductID,
			Title:     body.Title,
			ImageURL:  body.ImageURL,
			Notes:     body.Notes,
			StartDate: body.StartDate,
			EndDate:   body.EndDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "ad request submitted", ad)
	}
}

// ListActiveAds serves approved ads to the storefront.
func ListActiveAds(svc adsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ads, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "ads fetched", ads)
	}
}

// AdminListPendingAds returns the ad review queue.
func AdminListPendingAds(svc adsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ads, err := svc.ListPending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "pending ads fetched", ads)
	}
}

// AdminDecideAd approves or rejects a pending ad request.
func AdminDecideAd(svc adsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adID, err := validators.ParsePathUUID(r, "adId")
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

		ad, err := svc.Decide(r.Context(), adID, action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "decision recorded", ad)
	}
}
