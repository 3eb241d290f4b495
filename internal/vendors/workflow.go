package vendors

import (
	"context"
	"time"

	"github.com/dmwangi/sokoni-backend/internal/moderation"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// workflow binds vendor applications to the moderation engine.
type workflow struct {
	repo     *Repository
	accounts func(tx *gorm.DB) RoleUpdater
}

type applicationRecord struct {
	application *models.VendorApplication
}

func (r applicationRecord) Status() enums.ModerationStatus {
	return r.application.Status
}

func (w *workflow) Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (moderation.Record, error) {
	application, err := w.repo.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return applicationRecord{application: application}, nil
}

func (w *workflow) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.ModerationStatus, decidedAt time.Time) error {
	return w.repo.WithTx(tx).UpdateStatus(ctx, id, status, decidedAt)
}

// OnApprove promotes the applicant to vendor inside the decision transaction.
func (w *workflow) OnApprove(ctx context.Context, tx *gorm.DB, rec moderation.Record) error {
	application := rec.(applicationRecord).application
	return w.accounts(tx).UpdateRole(ctx, application.ApplicantID, enums.UserRoleVendor)
}
