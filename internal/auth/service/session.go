package service

import (
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
)

// SessionService mints session credentials.
type SessionService struct {
	Codec *jwtx.Codec
	TTL   time.Duration
}

// Issue mints a session for subject. A zero ttl uses the service default.
func (s *SessionService) Issue(subject string, ttl time.Duration) (domain.Session, error) {
	if ttl <= 0 {
		ttl = s.TTL
	}
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	token, claims, err := s.Codec.IssueSession(subject, ttl)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, ExpiresAt: claims.ExpiresAtTime()}, nil
}
