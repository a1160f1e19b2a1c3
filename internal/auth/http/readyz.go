package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/pkg/authsdk"
	"github.com/aussiebroadwan/otpauth/pkg/httpx"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
)

const readyzTimeout = 2 * time.Second

// Pinger is anything readiness can probe, e.g. the Redis ledger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the identity registry, the token codec and, when external, the challenge ledger.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	codec *jwtx.Codec,
	ledger Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		checks := &authsdk.HealthChecks{Database: "ok", Codec: "ok"}
		status, code := "ok", http.StatusOK
		degrade := func() { status, code = "degraded", http.StatusServiceUnavailable }

		if err := st.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
			degrade()
		}

		if codec == nil {
			checks.Codec = "error: not configured"
			degrade()
		} else if _, _, err := codec.IssueSession("readyz", time.Second); err != nil {
			checks.Codec = "error: " + err.Error()
			degrade()
		}

		if ledger != nil {
			checks.Ledger = "ok"
			if err := ledger.Ping(ctx); err != nil {
				checks.Ledger = "error: " + err.Error()
				degrade()
			}
		}

		httpx.WriteJSON(w, code, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
