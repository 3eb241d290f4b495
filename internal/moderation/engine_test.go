package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type reviewItem struct {
	ID       uuid.UUID `gorm:"column:id;primaryKey"`
	State    string    `gorm:"column:state"`
	Approved int       `gorm:"column:approved_hooks"`
}

func (reviewItem) TableName() string { return "review_items" }

func (r reviewItem) Status() enums.ModerationStatus { return enums.ModerationStatus(r.State) }

type reviewWorkflow struct {
	approveErr   error
	approveCalls int
}

func (w *reviewWorkflow) Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (Record, error) {
	var item reviewItem
	if err := tx.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (w *reviewWorkflow) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.ModerationStatus, decidedAt time.Time) error {
	return tx.WithContext(ctx).Model(&reviewItem{}).Where("id = ?", id).Update("state", status.String()).Error
}

func (w *reviewWorkflow) OnApprove(ctx context.Context, tx *gorm.DB, rec Record) error {
	w.approveCalls++
	if w.approveErr != nil {
		return w.approveErr
	}
	return tx.WithContext(ctx).Model(&reviewItem{}).
		Where("state = ?", enums.ModerationStatusApproved.String()).
		Update("approved_hooks", gorm.Expr("approved_hooks + 1")).Error
}

func setupEngineTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE review_items (
  id TEXT PRIMARY KEY,
  state TEXT NOT NULL,
  approved_hooks INTEGER NOT NULL DEFAULT 0
);`
	require.NoError(t, conn.Exec(schema).Error)
	return db.FromGorm(conn)
}

func seedReviewItem(t *testing.T, client *db.Client, state enums.ModerationStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	require.NoError(t, client.DB().Create(&reviewItem{ID: id, State: state.String()}).Error)
	return id
}

func loadReviewItem(t *testing.T, client *db.Client, id uuid.UUID) reviewItem {
	t.Helper()

	var item reviewItem
	require.NoError(t, client.DB().First(&item, "id = ?", id).Error)
	return item
}

func TestDecideNotFound(t *testing.T) {
	client := setupEngineTestDB(t)

	_, err := Decide(context.Background(), client, &reviewWorkflow{}, uuid.New(), enums.ModerationActionApprove)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDecideApprovesPendingRecord(t *testing.T) {
	client := setupEngineTestDB(t)
	id := seedReviewItem(t, client, enums.ModerationStatusPending)
	wf := &reviewWorkflow{}

	decision, err := Decide(context.Background(), client, wf, id, enums.ModerationActionApprove)
	require.NoError(t, err)
	assert.True(t, decision.Applied)
	assert.Equal(t, enums.ModerationStatusApproved, decision.Status)
	assert.Equal(t, 1, wf.approveCalls)

	item := loadReviewItem(t, client, id)
	assert.Equal(t, enums.ModerationStatusApproved.String(), item.State)
	assert.Equal(t, 1, item.Approved)
}

func TestDecideRepeatDecisionIsNoOp(t *testing.T) {
	client := setupEngineTestDB(t)
	id := seedReviewItem(t, client, enums.ModerationStatusPending)
	wf := &reviewWorkflow{}

	_, err := Decide(context.Background(), client, wf, id, enums.ModerationActionApprove)
	require.NoError(t, err)

	decision, err := Decide(context.Background(), client, wf, id, enums.ModerationActionApprove)
	require.NoError(t, err)
	assert.False(t, decision.Applied)
	assert.Equal(t, enums.ModerationStatusApproved, decision.Status)

	// side effect must not re-fire
	assert.Equal(t, 1, wf.approveCalls)
	assert.Equal(t, 1, loadReviewItem(t, client, id).Approved)
}

func TestDecideCrossTerminalIsStateConflict(t *testing.T) {
	client := setupEngineTestDB(t)
	id := seedReviewItem(t, client, enums.ModerationStatusRejected)

	_, err := Decide(context.Background(), client, &reviewWorkflow{}, id, enums.ModerationActionApprove)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, enums.ModerationStatusRejected.String(), loadReviewItem(t, client, id).State)
}

func TestDecideRejectSkipsApproveHook(t *testing.T) {
	client := setupEngineTestDB(t)
	id := seedReviewItem(t, client, enums.ModerationStatusPending)
	wf := &reviewWorkflow{}

	decision, err := Decide(context.Background(), client, wf, id, enums.ModerationActionReject)
	require.NoError(t, err)
	assert.True(t, decision.Applied)
	assert.Equal(t, enums.ModerationStatusRejected, decision.Status)
	assert.Equal(t, 0, wf.approveCalls)
}

func TestDecideRollsBackStatusWhenApproveHookFails(t *testing.T) {
	client := setupEngineTestDB(t)
	id := seedReviewItem(t, client, enums.ModerationStatusPending)
	wf := &reviewWorkflow{approveErr: errors.New("role update failed")}

	_, err := Decide(context.Background(), client, wf, id, enums.ModerationActionApprove)
	require.Error(t, err)

	item := loadReviewItem(t, client, id)
	assert.Equal(t, enums.ModerationStatusPending.String(), item.State)
	assert.Equal(t, 0, item.Approved)
}

func TestDecideRejectsUnknownAction(t *testing.T) {
	client := setupEngineTestDB(t)
	id := seedReviewItem(t, client, enums.ModerationStatusPending)

	_, err := Decide(context.Background(), client, &reviewWorkflow{}, id, enums.ModerationAction("archive"))
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
