package vendors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmwangi/sokoni-backend/internal/accounts"
	"github.com/dmwangi/sokoni-backend/pkg/auth"
	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupVendorsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{`
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  firebase_uid TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  photo_url TEXT,
  role TEXT NOT NULL DEFAULT 'user',
  banned INTEGER NOT NULL DEFAULT 0,
  ban_reason TEXT,
  ban_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE vendor_applications (
  id TEXT PRIMARY KEY,
  applicant_id TEXT NOT NULL,
  business_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  cover_image_url TEXT NOT NULL,
  location TEXT NOT NULL,
  description TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  decided_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE UNIQUE INDEX vendor_applications_active_applicant_key
  ON vendor_applications (applicant_id)
  WHERE status IN ('pending', 'approved');`}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newVendorsService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		DBClient: db.FromGorm(conn),
		AccountsForTx: func(tx *gorm.DB) RoleUpdater {
			return accounts.NewRepository(tx)
		},
	})
	require.NoError(t, err)
	return svc
}

func seedApplicant(t *testing.T, conn *gorm.DB, email string) auth.Actor {
	t.Helper()

	user := &models.User{
		FirebaseUID: "fb-" + email,
		Email:       email,
		DisplayName: "Applicant",
		Role:        enums.UserRoleUser,
	}
	require.NoError(t, conn.Create(user).Error)
	return auth.Actor{ID: user.ID, Role: enums.UserRoleUser}
}

func validApplyInput() ApplyInput {
	return ApplyInput{
		BusinessName:  "Mama Njeri Crafts",
		Phone:         "+254700000000",
		CoverImageURL: "https://img.example.com/cover.png",
		Location:      "Nairobi",
		Description:   "Handmade baskets and decor",
	}
}

func TestApply(t *testing.T) {
	conn := setupVendorsTestDB(t)
	svc := newVendorsService(t, conn)
	actor := seedApplicant(t, conn, "applicant@example.com")

	t.Run("happy", func(t *testing.T) {
		created, err := svc.Apply(context.Background(), actor, validApplyInput())
		require.NoError(t, err)
		assert.Equal(t, enums.ModerationStatusPending.String(), created.Status)
		assert.Equal(t, actor.ID, created.ApplicantID)
	})

	t.Run("vendorCannotReapply", func(t *testing.T) {
		_, err := svc.Apply(context.Background(), auth.Actor{ID: uuid.New(), Role: enums.UserRoleVendor}, validApplyInput())
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	})

	t.Run("missingFields", func(t *testing.T) {
		input := validApplyInput()
		input.Phone = ""
		input.Location = "  "
		_, err := svc.Apply(context.Background(), seedApplicant(t, conn, "other@example.com"), input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})
}

func TestApplyConflictLifecycle(t *testing.T) {
	conn := setupVendorsTestDB(t)
	svc := newVendorsService(t, conn)
	actor := seedApplicant(t, conn, "applicant@example.com")

	first, err := svc.Apply(context.Background(), actor, validApplyInput())
	require.NoError(t, err)

	// second submission while the first is pending
	_, err = svc.Apply(context.Background(), actor, validApplyInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// rejection frees the applicant to try again
	_, err = svc.Decide(context.Background(), first.ID, enums.ModerationActionReject)
	require.NoError(t, err)

	second, err := svc.Apply(context.Background(), actor, validApplyInput())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// an approved application blocks new submissions for good
	_, err = svc.Decide(context.Background(), second.ID, enums.ModerationActionApprove)
	require.NoError(t, err)

	// role changed, but verify the index still guards a user-role retry
	_, err = svc.Apply(context.Background(), actor, validApplyInput())
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestDecideApprovalPromotesApplicant(t *testing.T) {
	conn := setupVendorsTestDB(t)
	svc := newVendorsService(t, conn)
	actor := seedApplicant(t, conn, "applicant@example.com")

	created, err := svc.Apply(context.Background(), actor, validApplyInput())
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), created.ID, enums.ModerationActionApprove)
	require.NoError(t, err)
	assert.Equal(t, enums.ModerationStatusApproved.String(), decided.Status)
	require.NotNil(t, decided.DecidedAt)

	var user models.User
	require.NoError(t, conn.First(&user, "id = ?", actor.ID).Error)
	assert.Equal(t, enums.UserRoleVendor, user.Role)
}

type failingRoleUpdater struct{}

func (failingRoleUpdater) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	return errors.New("role update failed")
}

func TestDecideApprovalIsAtomic(t *testing.T) {
	conn := setupVendorsTestDB(t)
	actor := seedApplicant(t, conn, "applicant@example.com")

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		DBClient: db.FromGorm(conn),
		AccountsForTx: func(tx *gorm.DB) RoleUpdater {
			return failingRoleUpdater{}
		},
	})
	require.NoError(t, err)

	created, err := svc.Apply(context.Background(), actor, validApplyInput())
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), created.ID, enums.ModerationActionApprove)
	require.Error(t, err)

	// the failed promotion must roll the status flip back
	var application models.VendorApplication
	require.NoError(t, conn.First(&application, "id = ?", created.ID).Error)
	assert.Equal(t, enums.ModerationStatusPending, application.Status)

	var user models.User
	require.NoError(t, conn.First(&user, "id = ?", actor.ID).Error)
	assert.Equal(t, enums.UserRoleUser, user.Role)
}

func TestDecideRejectDoesNotPromote(t *testing.T) {
	conn := setupVendorsTestDB(t)
	svc := newVendorsService(t, conn)
	actor := seedApplicant(t, conn, "applicant@example.com")

	created, err := svc.Apply(context.Background(), actor, validApplyInput())
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), created.ID, enums.ModerationActionReject)
	require.NoError(t, err)
	assert.Equal(t, enums.ModerationStatusRejected.String(), decided.Status)

	var user models.User
	require.NoError(t, conn.First(&user, "id = ?", actor.ID).Error)
	assert.Equal(t, enums.UserRoleUser, user.Role)
}

func TestDecideMissingApplication(t *testing.T) {
	conn := setupVendorsTestDB(t)
	svc := newVendorsService(t, conn)

	_, err := svc.Decide(context.Background(), uuid.New(), enums.ModerationActionApprove)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListApplications(t *testing.T) {
	conn := setupVendorsTestDB(t)
	svc := newVendorsService(t, conn)

	base := time.Now().UTC().Add(-time.Hour)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		actor := seedApplicant(t, conn, email)
		created, err := svc.Apply(context.Background(), actor, validApplyInput())
		require.NoError(t, err)
		require.NoError(t, conn.Model(&models.VendorApplication{}).Where("id = ?", created.ID).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
		if email == "c@example.com" {
			_, err = svc.Decide(context.Background(), created.ID, enums.ModerationActionReject)
			require.NoError(t, err)
		}
	}

	all, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[2].CreatedAt))

	pending := enums.ModerationStatusPending
	filtered, err := svc.List(context.Background(), &pending)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	bogus := enums.ModerationStatus("archived")
	_, err = svc.List(context.Background(), &bogus)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
