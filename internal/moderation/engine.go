package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is the view of a moderated row the engine needs.
type Record interface {
	Status() enums.ModerationStatus
}

// Workflow binds one moderated entity type to the engine. SetStatus and
// OnApprove receive the transaction the decision runs in; when OnApprove
// fails the status flip is rolled back with it.
type Workflow interface {
	Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (Record, error)
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.ModerationStatus, decidedAt time.Time) error
	OnApprove(ctx context.Context, tx *gorm.DB, rec Record) error
}

// Decision reports the status after the call and whether this call flipped it.
type Decision struct {
	Status  enums.ModerationStatus
	Applied bool
}

// Decide applies a reviewer action to the record.
//
// Repeating a decision that already took effect is a no-op. Reversing a
// terminal decision (approve after reject or the other way around) is a
// state conflict; once a record leaves pending it never moves again.
func Decide(ctx context.Context, dbClient *db.Client, wf Workflow, id uuid.UUID, action enums.ModerationAction) (*Decision, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if wf == nil {
		return nil, fmt.Errorf("workflow required")
	}
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown moderation action %q", action))
	}

	target := action.TargetStatus()
	decision := &Decision{}

	if err := dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		rec, err := wf.Find(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load record")
		}

		current := rec.Status()
		if current == target {
			decision.Status = current
			return nil
		}
		if current.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("record already %s", current)).
				WithDetails(map[string]any{"status": current.String()})
		}

		if err := wf.SetStatus(ctx, tx, id, target, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update status")
		}
		if action == enums.ModerationActionApprove {
			if err := wf.OnApprove(ctx, tx, rec); err != nil {
				return err
			}
		}

		decision.Status = target
		decision.Applied = true
		return nil
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply moderation decision")
	}

	return decision, nil
}
