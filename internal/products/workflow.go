package products

import (
	"context"
	"time"

	"github.com/dmwangi/sokoni-backend/internal/moderation"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// workflow binds product listings to the moderation engine.
type workflow struct {
	repo *Repository
}

type productRecord struct {
	product *models.Product
}

func (r productRecord) Status() enums.ModerationStatus {
	return r.product.ModerationStatus
}

func (w *workflow) Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (moderation.Record, error) {
	product, err := w.repo.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productRecord{product: product}, nil
}

func (w *workflow) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.ModerationStatus, decidedAt time.Time) error {
	return w.repo.WithTx(tx).UpdateModerationStatus(ctx, id, status, decidedAt)
}

// OnApprove is a no-op: approving a listing only changes its visibility.
func (w *workflow) OnApprove(ctx context.Context, tx *gorm.DB, rec moderation.Record) error {
	return nil
}
