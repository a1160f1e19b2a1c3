package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

const (
	MsgNoToken      = "Access denied: no token provided"
	MsgInvalidToken = "Invalid or expired token"
)

// BearerToken returns the first whitespace separated field after the scheme
// in the Authorization header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) string {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return fields[1]
}

// SessionGate admits requests carrying a valid session token and attaches the
// claims to the request context. It does not consult the identity store.
func SessionGate(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				WriteError(w, http.StatusUnauthorized, MsgNoToken)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(r.Context()).Warn("session token rejected", "err", err)
				WriteError(w, http.StatusForbidden, MsgInvalidToken)
				return
			}

			ctx := slogx.With(contextWithSession(r.Context(), claims), "identity_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
