package accounts

import (
	"time"

	"github.com/dmwangi/sokoni-backend/pkg/db/models"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
	"github.com/google/uuid"
)

// AccountDTO is the account payload returned to clients.
type AccountDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	Role        string     `json:"role"`
	Banned      bool       `json:"banned"`
	BanReason   *string    `json:"ban_reason,omitempty"`
	BanDate     *time.Time `json:"ban_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromModel maps the persisted account to its DTO.
func FromModel(user *models.User) *AccountDTO {
	if user == nil {
		return nil
	}
	return &AccountDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Role:        user.Role.String(),
		Banned:      user.Banned,
		BanReason:   user.BanReason,
		BanDate:     user.BanDate,
		CreatedAt:   user.CreatedAt,
	}
}

// AuthSessionDTO is returned by the identity exchange: the resolved account
// plus a fresh token pair.
type AuthSessionDTO struct {
	User         *AccountDTO `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

// TokenPairDTO is returned by the refresh rotation.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccountListResult combines a page of accounts with its metadata.
type AccountListResult struct {
	Accounts []AccountDTO    `json:"accounts"`
	Meta     pagination.Meta `json:"meta"`
}

// AdminStatsDTO carries the marketplace-wide counters for the admin dashboard.
type AdminStatsDTO struct {
	TotalUsers    int64 `json:"total_users"`
	TotalVendors  int64 `json:"total_vendors"`
	TotalProducts int64 `json:"total_products"`
	TotalOrders   int64 `json:"total_orders"`
}
