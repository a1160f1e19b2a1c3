package http

import (
	"net/http"

	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/pkg/authsdk"
	"github.com/aussiebroadwan/otpauth/pkg/httpx"
)

type MeHandler struct {
	Identities *service.IdentityService
}

// ServeHTTP godoc
//
//	@Summary		Current identity
//	@Description	Returns the identity behind the session token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MeResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"no token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"invalid or expired token"
//	@Failure		404	{object}	authsdk.ErrorResponse	"identity gone"
//	@Router			/v1/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := httpx.IdentityIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.MsgNoToken)
		return
	}

	identity, err := h.Identities.Get(ctx, id)
	if err != nil {
		writeServiceError(w, r, "load identity", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MeResponse{
		Success:  true,
		Identity: publicIdentity(identity),
	})
}
