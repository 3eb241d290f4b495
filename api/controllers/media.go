package controllers

import (
	"net/http"

	"github.com/dmwangi/sokoni-backend/api/responses"
	"github.com/dmwangi/sokoni-backend/pkg/cloudinary"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/dmwangi/sokoni-backend/pkg/logger"
)

// Image uploads cap out at 10 MiB.
const maxUploadBytes = 10 << 20

type mediaUploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MediaUpload accepts a multipart file and returns its hosted URL.
func MediaUpload(uploader cloudinary.Uploader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		upload, err := uploader.Upload(r.Context(), file, header.Filename)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload media"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "media uploaded", mediaUploadResponse{
			URL:      upload.URL,
			PublicID: upload.PublicID,
		})
	}
}
