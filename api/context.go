package api

import (
	"context"

	"github.com/codemart-app/backend/auth"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims adds validated token claims to the context
func ctxWithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims retrieves the validated token claims placed by the
// authenticate middleware.
func ctxGetClaims(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	return claims, ok
}
