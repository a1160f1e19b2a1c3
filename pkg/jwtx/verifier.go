package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// ErrInvalidToken is the umbrella every verification failure satisfies via
// errors.Is, so callers that only care about pass/fail can check one value.
var ErrInvalidToken = errors.New("jwtx: invalid token")

var (
	ErrMalformed    = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrInvalidSig   = fmt.Errorf("%w: invalid signature", ErrInvalidToken)
	ErrPurpose      = fmt.Errorf("%w: wrong token purpose", ErrInvalidToken)
	ErrIssuer       = fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	ErrExpired      = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrNotYetValid  = fmt.Errorf("%w: not yet valid", ErrInvalidToken)
	ErrInvalidClaim = fmt.Errorf("%w: invalid claims", ErrInvalidToken)
)

// HS256Verifier validates tokens of a single purpose.
type HS256Verifier struct {
	key     []byte
	issuer  string
	purpose Purpose
	now     func() time.Time
}

// NewVerifierHS256 creates a verifier for one purpose. An empty issuer
// skips the iss check.
func NewVerifierHS256(key []byte, issuer string, purpose Purpose, now func() time.Time) *HS256Verifier {
	if now == nil {
		now = time.Now
	}
	return &HS256Verifier{key: key, issuer: issuer, purpose: purpose, now: now}
}

// Verify parses and validates token. Every failure wraps ErrInvalidToken.
func (v *HS256Verifier) Verify(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if kid, _ := t.Header["kid"].(string); kid != string(v.purpose) {
			return nil, ErrPurpose
		}
		return v.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if claims.Purpose != v.purpose {
		return Claims{}, ErrPurpose
	}
	if claims.Subject == "" || claims.ID == "" {
		return Claims{}, ErrInvalidClaim
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrPurpose):
		return ErrPurpose
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrInvalidClaim
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}
