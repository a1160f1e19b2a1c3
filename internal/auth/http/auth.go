package http

import (
	"net/http"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/pkg/authsdk"
	"github.com/aussiebroadwan/otpauth/pkg/httpx"
)

// AuthHandler serves the sign-up and OTP login endpoints.
type AuthHandler struct {
	Registration *service.RegistrationService
	Challenges   *service.ChallengeService
}

func publicIdentity(id domain.Identity) authsdk.Identity {
	return authsdk.Identity{
		ID:          id.ID,
		Name:        id.Name,
		PhoneNumber: id.PhoneNumber,
		Address:     id.Address,
	}
}

// HandleSignup godoc
//
//	@Summary		Sign up
//	@Description	Registers a phone number and returns a short-lived session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignupRequest	true	"name, phoneNumber, optional address"
//	@Success		201		{object}	authsdk.SignupResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid input or already registered"
//	@Failure		429		{object}	authsdk.ErrorResponse
//	@Failure		500		{object}	authsdk.ErrorResponse
//	@Router			/v1/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reg, err := h.Registration.Register(r.Context(), service.RegisterInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		writeServiceError(w, r, "signup", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.SignupResponse{
		Success:      true,
		Message:      msgSignupOK,
		Identity:     publicIdentity(reg.Identity),
		SessionToken: reg.Session.Token,
	})
}

// HandleLogin godoc
//
//	@Summary		Request a login code
//	@Description	Sends a one-time code by SMS to a registered phone number and returns the challenge token to submit it with.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"phoneNumber"
//	@Success		200		{object}	authsdk.LoginResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid number or unverified destination"
//	@Failure		404		{object}	authsdk.ErrorResponse	"not registered"
//	@Failure		429		{object}	authsdk.ErrorResponse
//	@Failure		500		{object}	authsdk.ErrorResponse
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ch, err := h.Challenges.Issue(r.Context(), req.PhoneNumber)
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Success:        true,
		Message:        msgCodeSent,
		ChallengeToken: ch.Token,
		ExpiresAt:      ch.ExpiresAt,
	})
}

// HandleVerifyOTP godoc
//
//	@Summary		Verify a login code
//	@Description	Exchanges the challenge token (Authorization header) and the SMS code for a session token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyOTPRequest	true	"code as string or number"
//	@Success		200		{object}	authsdk.VerifyOTPResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"missing or wrong code"
//	@Failure		401		{object}	authsdk.ErrorResponse	"missing, expired or used challenge"
//	@Failure		404		{object}	authsdk.ErrorResponse	"identity gone"
//	@Failure		429		{object}	authsdk.ErrorResponse
//	@Failure		500		{object}	authsdk.ErrorResponse
//	@Router			/v1/auth/verify-otp [post].
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyOTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.Challenges.Verify(r.Context(), httpx.BearerToken(r), req.Code.String())
	if err != nil {
		writeServiceError(w, r, "verify otp", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyOTPResponse{
		Success:      true,
		Message:      msgCodeVerified,
		SessionToken: res.Session.Token,
		Identity:     publicIdentity(res.Identity),
	})
}
