package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgauth "github.com/dmwangi/sokoni-backend/pkg/auth"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated principal into the context. Exposed for
// handler tests that bypass the Auth middleware.
func WithActor(ctx context.Context, actor pkgauth.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, actor.ID.String())
	return context.WithValue(ctx, ctxRole, string(actor.Role))
}

// ActorFromContext reconstructs the acting principal seeded by Auth.
func ActorFromContext(ctx context.Context) (pkgauth.Actor, error) {
	raw := UserIDFromContext(ctx)
	if raw == "" {
		return pkgauth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return pkgauth.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	role := enums.UserRole(RoleFromContext(ctx))
	if !role.IsValid() {
		return pkgauth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "role context missing")
	}
	return pkgauth.Actor{ID: id, Role: role}, nil
}
