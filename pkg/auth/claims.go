package auth

import (
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Email  string         `json:"email"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Actor identifies the authenticated principal performing a request.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// Actor extracts the acting principal from the claims.
func (c *AccessTokenClaims) Actor() Actor {
	return Actor{ID: c.UserID, Role: c.Role}
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}
