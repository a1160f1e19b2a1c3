package service

import "errors"

// Sentinel errors returned by the services. The HTTP layer maps each to a
// status and a user-facing message.
var (
	ErrInvalidPhoneNumber    = errors.New("invalid_phone_number")
	ErrInvalidName           = errors.New("invalid_name")
	ErrIdentityNotFound      = errors.New("identity_not_found")
	ErrIdentityExists        = errors.New("identity_exists")
	ErrMissingCode           = errors.New("missing_code")
	ErrMissingChallenge      = errors.New("missing_challenge")
	ErrChallengeExpired      = errors.New("challenge_expired")
	ErrInvalidCode           = errors.New("invalid_code")
	ErrChallengeUsed         = errors.New("challenge_used")
	ErrTooManyAttempts       = errors.New("too_many_attempts")
	ErrDestinationUnverified = errors.New("destination_unverified")
	ErrDeliveryFailed        = errors.New("delivery_failed")
)
