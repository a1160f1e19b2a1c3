package httpx

import (
	"context"

	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyIdentityID ctxKey = "identity_id"
	CtxKeyClaims     ctxKey = "claims"
)

// IdentityIDFromContext returns the subject the session gate attached.
func IdentityIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyIdentityID).(string)
	return id, ok && id != ""
}

// ClaimsFromContext returns the verified session claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

func contextWithSession(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyIdentityID, c.Subject)
	return context.WithValue(ctx, CtxKeyClaims, c)
}
