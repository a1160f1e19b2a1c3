package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aussiebroadwan/otpauth/pkg/idx"
)

// Default lifetimes for the two token kinds.
const (
	// DefaultChallengeTTL bounds how long a delivered code can be redeemed.
	DefaultChallengeTTL = 5 * time.Minute

	// DefaultSessionTTL is the lifetime of a session minted after OTP verification.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// DefaultIssuer is the iss claim when none is configured.
const DefaultIssuer = "otpauth"

// Purpose separates challenge tokens from session tokens. Each purpose is
// signed with its own derived key.
type Purpose string

const (
	PurposeChallenge Purpose = "challenge"
	PurposeSession   Purpose = "session"
)

// Claims carried by every token this service mints.
type Claims struct {
	jwt.RegisteredClaims

	// Purpose is echoed in the payload so a token can be triaged without
	// trying every key.
	Purpose Purpose `json:"pur"`

	// CodeDigest commits to the one-time code of a challenge token. The
	// plaintext code never appears in the token because the payload is
	// readable by whoever holds it.
	CodeDigest string `json:"cdg,omitempty"`
}

// NewChallengeClaims builds the claims for a challenge token.
func NewChallengeClaims(subject, jti, codeDigest string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, jti, ttl, issuer, now),
		Purpose:          PurposeChallenge,
		CodeDigest:       codeDigest,
	}
}

// NewSessionClaims builds the claims for a session token.
func NewSessionClaims(subject string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, idx.NewAt(now).String(), ttl, issuer, now),
		Purpose:          PurposeSession,
	}
}

func registered(subject, jti string, ttl time.Duration, issuer string, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        jti,
	}
}

// ExpiresAtTime returns exp in UTC, or the zero time when absent.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time.UTC()
}
