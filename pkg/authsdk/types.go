package authsdk

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// ============================================================================
// Envelope Types
// ============================================================================

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Identity is the public view of a registered phone number.
type Identity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address,omitempty"`
}

// ============================================================================
// Sign-up
// ============================================================================

// SignupRequest registers a new identity.
type SignupRequest struct {
	// Name must be non-empty after trimming
	Name string `json:"name"`

	// PhoneNumber is a 10 digit national number starting with 6-9
	PhoneNumber string `json:"phoneNumber"`

	Address string `json:"address,omitempty"`
}

// SignupResponse carries the created identity and a short-lived session.
type SignupResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Identity     Identity `json:"identity"`
	SessionToken string   `json:"sessionToken"`
}

// ============================================================================
// Login / OTP
// ============================================================================

// LoginRequest asks for a one-time code to be sent to PhoneNumber.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// LoginResponse carries the challenge token that must accompany the code.
type LoginResponse struct {
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	ChallengeToken string    `json:"challengeToken"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// VerifyOTPRequest submits the code received over SMS. The challenge token
// travels in the Authorization header.
type VerifyOTPRequest struct {
	Code Code `json:"code"`
}

// VerifyOTPResponse carries the long-lived session token.
type VerifyOTPResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	SessionToken string   `json:"sessionToken"`
	Identity     Identity `json:"identity"`
}

// MeResponse is returned by the session-protected profile endpoint.
type MeResponse struct {
	Success  bool     `json:"success"`
	Identity Identity `json:"identity"`
}

// ErrInvalidCodeType is returned when a code is neither a JSON string nor a
// JSON number.
var ErrInvalidCodeType = errors.New("authsdk: code must be a string or a number")

// Code is a one-time code as submitted by a client. It accepts both a JSON
// string ("004821") and a JSON number (4821) and always marshals as a string.
type Code string

// UnmarshalJSON implements json.Unmarshaler.
func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidCodeType
	}
	*c = Code(n.String())
	return nil
}

// String returns the raw code text.
func (c Code) String() string { return string(c) }

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status ("ok" or "degraded")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the identity registry connection status
	Database string `json:"database"`

	// Codec indicates whether tokens can be signed
	Codec string `json:"codec"`

	// Ledger indicates the challenge ledger status, omitted when disabled
	Ledger string `json:"ledger,omitempty"`
}
