package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/pkg/httpx"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

const (
	msgInvalidBody     = "Invalid request body"
	msgInternal        = "Internal Server Error"
	msgSignupOK        = "Signup successful"
	msgCodeSent        = "OTP sent successfully. Please check your mobile."
	msgCodeVerified    = "OTP verified successfully"
	msgIdentityMissing = "User not found. Please sign up first."
)

type errorResponse struct {
	status  int
	message string
}

// errorStatus maps service errors to the status and message shown to the
// client. Anything not listed is a 500.
var errorStatus = []struct {
	err error
	errorResponse
}{
	{service.ErrInvalidPhoneNumber, errorResponse{http.StatusBadRequest, "Please enter a valid 10-digit mobile number starting with 6-9"}},
	{service.ErrInvalidName, errorResponse{http.StatusBadRequest, "Please provide a valid name and mobile number"}},
	{service.ErrIdentityExists, errorResponse{http.StatusBadRequest, "User already exists. Please login instead."}},
	{service.ErrIdentityNotFound, errorResponse{http.StatusNotFound, msgIdentityMissing}},
	{service.ErrMissingCode, errorResponse{http.StatusBadRequest, "OTP is required"}},
	{service.ErrInvalidCode, errorResponse{http.StatusBadRequest, "Invalid OTP"}},
	{service.ErrMissingChallenge, errorResponse{http.StatusUnauthorized, "OTP token missing, please login again"}},
	{service.ErrChallengeExpired, errorResponse{http.StatusUnauthorized, "OTP expired or invalid, please request a new code"}},
	{service.ErrTooManyAttempts, errorResponse{http.StatusUnauthorized, "Too many incorrect attempts, please request a new code"}},
	{service.ErrChallengeUsed, errorResponse{http.StatusUnauthorized, "OTP already used, please login again"}},
	{service.ErrDestinationUnverified, errorResponse{http.StatusBadRequest, "The phone number is unverified. Trial accounts can only send messages to verified numbers."}},
	{service.ErrDeliveryFailed, errorResponse{http.StatusInternalServerError, msgInternal}},
}

func lookupError(err error) errorResponse {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.errorResponse
		}
	}
	return errorResponse{http.StatusInternalServerError, msgInternal}
}

// writeServiceError logs err and writes its mapped response. Only server
// errors are logged at error level; the rest are expected client mistakes.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	resp := lookupError(err)
	log := slogx.FromContext(r.Context())

	if resp.status >= http.StatusInternalServerError {
		slogx.LogError(log, op+" failed", err)
	} else {
		log.Info(op+" rejected", "status", resp.status, "err", err)
	}

	httpx.WriteError(w, resp.status, resp.message)
}
