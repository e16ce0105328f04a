package http

import (
	"context"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/security"
)

type contextKey int

const claimsKey contextKey = iota

func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the token claims stored by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	return claims, ok && claims != nil
}

// ActorFromContext returns the authenticated caller.
func ActorFromContext(ctx context.Context) (lifecycle.Actor, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return lifecycle.Actor{}, domain.NewError(domain.ErrUnauthorized, "authentication required")
	}
	return lifecycle.Actor{UserID: claims.UserID, IsStaff: claims.IsStaff}, nil
}

// optionalUserID is set for signed-in callers of public routes.
func optionalUserID(ctx context.Context) *int32 {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil
	}
	id := claims.UserID
	return &id
}
