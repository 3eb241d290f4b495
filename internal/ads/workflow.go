package ads

import (
	"context"
	"time"

	"github.com/dmwangi/sokoni-backend/internal/moderation"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// workflow binds ad requests to the moderation engine.
type workflow struct {
	repo *Repository
}

type adRecord struct {
	ad *models.AdSlot
}

func (r adRecord) Status() enums.ModerationStatus {
	return r.ad.Status
}

func (w *workflow) Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (moderation.Record, error) {
	ad, err := w.repo.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return adRecord{ad: ad}, nil
}

func (w *workflow) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.ModerationStatus, decidedAt time.Time) error {
	return w.repo.WithTx(tx).UpdateStatus(ctx, id, status, decidedAt)
}

// OnApprove is a no-op: an approved ad simply becomes part of the active set.
func (w *workflow) OnApprove(ctx context.Context, tx *gorm.DB, rec moderation.Record) error {
	return nil
}
