package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/dmwangi/sokoni-backend/pkg/auth"
	"github.com/dmwangi/sokoni-backend/pkg/auth/session"
	"github.com/dmwangi/sokoni-backend/pkg/config"
	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/dmwangi/sokoni-backend/pkg/firebase"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const bannedAccountMessage = "account is banned"

// Service exposes account lifecycle, session, and admin operations.
type Service interface {
	ResolveOrCreate(ctx context.Context, identity firebase.Identity, profile ProfileInput) (*AuthSessionDTO, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPairDTO, error)
	SignOut(ctx context.Context, accessID string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*AccountDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*AccountDTO, error)
	List(ctx context.Context, params pagination.Params) (*AccountListResult, error)
	SetRole(ctx context.Context, accountID uuid.UUID, role enums.UserRole) (*AccountDTO, error)
	SetBanState(ctx context.Context, accountID uuid.UUID, banned bool, reason *string) (*AccountDTO, error)
	AdminStats(ctx context.Context) (*AdminStatsDTO, error)
}

// ProfileInput carries optional client-supplied profile data on first login.
type ProfileInput struct {
	DisplayName string
	PhotoURL    *string
}

// UpdateProfileInput holds the mutable profile columns.
type UpdateProfileInput struct {
	DisplayName string
	PhotoURL    *string
}

type accountRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFirebaseUID(ctx context.Context, id uuid.UUID, uid string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName string, photoURL *string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
	UpdateBanState(ctx context.Context, id uuid.UUID, banned bool, reason *string, at *time.Time) error
	List(ctx context.Context, params pagination.Params) ([]models.User, int64, error)
	Stats(ctx context.Context) (*StatsRow, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo    accountRepository
	session sessionManager
	jwtCfg  config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an accounts service.
type ServiceParams struct {
	Repo           accountRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs an accounts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("accounts repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		repo:    params.Repo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
	}, nil
}

// ResolveOrCreate maps a verified identity to its account, creating the
// account on first contact, and issues a fresh token pair. Losing a creation
// race against a concurrent first login falls back to the lookup instead of
// surfacing the duplicate-key error.
func (s *service) ResolveOrCreate(ctx context.Context, identity firebase.Identity, profile ProfileInput) (*AuthSessionDTO, error) {
	uid := strings.TrimSpace(identity.UID)
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if uid == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity uid is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity email is required")
	}

	account, err := s.resolve(ctx, uid, email)
	if err != nil {
		return nil, err
	}

	if account == nil {
		account, err = s.create(ctx, uid, email, identity, profile)
		if err != nil {
			return nil, err
		}
	}

	if account.Banned {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, bannedAccountMessage)
	}

	accessToken, refreshToken, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}

	return &AuthSessionDTO{
		User:         FromModel(account),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) resolve(ctx context.Context, uid, email string) (*models.User, error) {
	account, err := s.repo.FindByFirebaseUID(ctx, uid)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup account by uid")
	}

	account, err = s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup account by email")
	}

	// Same mailbox, new provider uid: relink rather than duplicate.
	if account.FirebaseUID != uid {
		if err := s.repo.UpdateFirebaseUID(ctx, account.ID, uid); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: relink provider uid")
		}
		account.FirebaseUID = uid
	}
	return account, nil
}

func (s *service) create(ctx context.Context, uid, email string, identity firebase.Identity, profile ProfileInput) (*models.User, error) {
	account := &models.User{
		FirebaseUID: uid,
		Email:       email,
		DisplayName: displayNameFor(profile.DisplayName, identity.Name, email),
		PhotoURL:    photoURLFor(profile.PhotoURL, identity.PhotoURL),
		Role:        enums.UserRoleUser,
	}

	created, err := s.repo.Create(ctx, account)
	if err == nil {
		return created, nil
	}
	if !db.IsUniqueViolation(err, "") {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create account")
	}

	// Lost the race to a concurrent first login; the row exists now.
	existing, lookupErr := s.resolve(ctx, uid, email)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create account")
	}
	return existing, nil
}

// Refresh rotates the refresh token tied to a (possibly expired) access token
// and mints a replacement access token for the account's current role.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPairDTO, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	account, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup account")
	}
	if account.Banned {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, bannedAccountMessage)
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	newAccessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: account.ID,
		Email:  account.Email,
		Role:   account.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &TokenPairDTO{AccessToken: newAccessToken, RefreshToken: newRefreshToken}, nil
}

// SignOut revokes the refresh session tied to the access identifier.
func (s *service) SignOut(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// GetProfile returns the account payload for the authenticated user.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*AccountDTO, error) {
	account, err := s.loadAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(account), nil
}

// UpdateProfile overwrites display name and photo for the authenticated user.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*AccountDTO, error) {
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display_name is required")
	}

	account, err := s.loadAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, account.ID, name, input.PhotoURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update profile")
	}
	account.DisplayName = name
	account.PhotoURL = input.PhotoURL
	return FromModel(account), nil
}

// List returns a page of accounts for the admin console.
func (s *service) List(ctx context.Context, params pagination.Params) (*AccountListResult, error) {
	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list accounts")
	}

	dtos := make([]AccountDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, *FromModel(&users[i]))
	}
	return &AccountListResult{Accounts: dtos, Meta: params.MetaFor(total)}, nil
}

// SetRole is the admin override; it may set any role, including downgrades.
func (s *service) SetRole(ctx context.Context, accountID uuid.UUID, role enums.UserRole) (*AccountDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", role))
	}

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(ctx, account.ID, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update role")
	}
	account.Role = role
	return FromModel(account), nil
}

// SetBanState bans or unbans the account. The reason and ban date always move
// with the flag: banning records both, lifting clears both.
func (s *service) SetBanState(ctx context.Context, accountID uuid.UUID, banned bool, reason *string) (*AccountDTO, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var banReason *string
	var banDate *time.Time
	if banned {
		trimmed := ""
		if reason != nil {
			trimmed = strings.TrimSpace(*reason)
		}
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ban reason is required")
		}
		now := time.Now().UTC()
		banReason = &trimmed
		banDate = &now
	}

	if err := s.repo.UpdateBanState(ctx, account.ID, banned, banReason, banDate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update ban state")
	}
	account.Banned = banned
	account.BanReason = banReason
	account.BanDate = banDate
	return FromModel(account), nil
}

// AdminStats aggregates marketplace counters for the dashboard.
func (s *service) AdminStats(ctx context.Context) (*AdminStatsDTO, error) {
	row, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: aggregate stats")
	}
	return &AdminStatsDTO{
		TotalUsers:    row.Users,
		TotalVendors:  row.Vendors,
		TotalProducts: row.Products,
		TotalOrders:   row.Orders,
	}, nil
}

func (s *service) loadAccount(ctx context.Context, id uuid.UUID) (*models.User, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup account")
	}
	return account, nil
}

func (s *service) issueSession(ctx context.Context, account *models.User) (string, string, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: account.ID,
		Email:  account.Email,
		Role:   account.Role,
		JTI:    accessID,
	})
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return accessToken, refreshToken, nil
}

func displayNameFor(profileName, identityName, email string) string {
	if name := strings.TrimSpace(profileName); name != "" {
		return name
	}
	if name := strings.TrimSpace(identityName); name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func photoURLFor(profileURL *string, identityURL string) *string {
	if profileURL != nil && strings.TrimSpace(*profileURL) != "" {
		return profileURL
	}
	if trimmed := strings.TrimSpace(identityURL); trimmed != "" {
		return &trimmed
	}
	return nil
}
