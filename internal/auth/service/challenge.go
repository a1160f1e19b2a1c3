package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/delivery"
	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/observability"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/pkg/cryptox"
	"github.com/aussiebroadwan/otpauth/pkg/idx"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultCountryCode = "+91"

// ChallengeService runs the login half of the flow: it sends a code to a
// registered number and later trades that code for a session.
//
// Challenges are carried entirely by the signed token. Ledger, when set, adds
// server side state keyed by the token id to enforce single use and an
// attempt limit; a nil Ledger leaves tokens reusable until they expire.
type ChallengeService struct {
	Store    store.Store
	Ledger   store.Challenges
	Codec    *jwtx.Codec
	Sessions *SessionService
	Sender   delivery.Sender
	Metrics  *observability.Metrics

	// Provider labels delivery metrics, e.g. "twilio".
	Provider    string
	CountryCode string
	TTL         time.Duration

	SingleUse   bool
	MaxAttempts int // 0 disables the limit

	// GenerateCode defaults to cryptox.GenerateNumericCode.
	GenerateCode func() (int, error)
}

// VerifyResult is the outcome of a successful code check.
type VerifyResult struct {
	Identity domain.Identity
	Session  domain.Session
}

func (s *ChallengeService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultChallengeTTL
}

func (s *ChallengeService) countryCode() string {
	if s.CountryCode != "" {
		return s.CountryCode
	}
	return DefaultCountryCode
}

// loginMessage is the SMS text. The validity is stated in whole minutes.
func loginMessage(code int, ttl time.Duration) string {
	mins := max(int(ttl/time.Minute), 1)
	unit := "minutes"
	if mins == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("Your OTP for login is %s. It is valid for %d %s.", cryptox.FormatCode(code), mins, unit)
}

// Issue sends a fresh code to phoneNumber and returns the challenge token
// the caller must present with it. Earlier challenges stay valid.
func (s *ChallengeService) Issue(ctx context.Context, phoneNumber string) (_ domain.IssuedChallenge, err error) {
	ctx, span := tracer.Start(ctx, "challenge.issue")
	defer func() { endSpan(span, err) }()
	log := slogx.FromContext(ctx)

	phone, ok := domain.NormalizePhoneNumber(phoneNumber)
	if !ok {
		s.Metrics.Challenge(observability.OutcomeInvalidInput)
		return domain.IssuedChallenge{}, ErrInvalidPhoneNumber
	}

	identity, err := s.Store.Identities().GetIdentityByPhoneNumber(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.Challenge(observability.OutcomeNotFound)
			return domain.IssuedChallenge{}, ErrIdentityNotFound
		}
		s.Metrics.Challenge(observability.OutcomeError)
		return domain.IssuedChallenge{}, fmt.Errorf("lookup identity: %w", err)
	}
	span.SetAttributes(attribute.String("identity.id", identity.ID))

	generate := s.GenerateCode
	if generate == nil {
		generate = cryptox.GenerateNumericCode
	}
	code, err := generate()
	if err != nil {
		s.Metrics.Challenge(observability.OutcomeError)
		return domain.IssuedChallenge{}, fmt.Errorf("generate code: %w", err)
	}

	ttl := s.ttl()
	token, claims, err := s.Codec.IssueChallenge(identity.ID, idx.New().String(), cryptox.FormatCode(code), ttl)
	if err != nil {
		s.Metrics.Challenge(observability.OutcomeError)
		return domain.IssuedChallenge{}, fmt.Errorf("issue challenge: %w", err)
	}

	started := time.Now()
	err = s.Sender.Send(ctx, delivery.Message{
		Kind:        delivery.KindLoginCode,
		Destination: s.countryCode() + phone,
		Body:        loginMessage(code, ttl),
	})
	s.Metrics.Delivery(s.Provider, err == nil, time.Since(started))
	if err != nil {
		if errors.Is(err, delivery.ErrUnverifiedDestination) {
			s.Metrics.Challenge(observability.OutcomeUnverified)
			return domain.IssuedChallenge{}, fmt.Errorf("%w: %w", ErrDestinationUnverified, err)
		}
		s.Metrics.Challenge(observability.OutcomeError)
		return domain.IssuedChallenge{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	log.Info("login code sent", "identity_id", identity.ID, "phone_number", phone, "jti", claims.ID)
	s.Metrics.Challenge(observability.OutcomeIssued)

	return domain.IssuedChallenge{Token: token, ExpiresAt: claims.ExpiresAtTime()}, nil
}

// Verify checks code against the challenge token and, on a match, issues a
// session for the challenged identity. Checks run in a fixed order and the
// first failure wins: missing code, missing token, bad or expired token,
// attempt limit, wrong code, identity gone, replay.
func (s *ChallengeService) Verify(ctx context.Context, challengeToken, code string) (_ VerifyResult, err error) {
	ctx, span := tracer.Start(ctx, "challenge.verify")
	defer func() { endSpan(span, err) }()
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(code) == "" {
		s.Metrics.Verification(observability.OutcomeInvalidInput)
		return VerifyResult{}, ErrMissingCode
	}
	challengeToken = strings.TrimSpace(challengeToken)
	if challengeToken == "" {
		s.Metrics.Verification(observability.OutcomeInvalidInput)
		return VerifyResult{}, ErrMissingChallenge
	}

	claims, err := s.Codec.Verify(jwtx.PurposeChallenge, challengeToken)
	if err != nil {
		log.Info("challenge token rejected", "err", err)
		s.Metrics.Verification(observability.OutcomeExpired)
		return VerifyResult{}, fmt.Errorf("%w: %w", ErrChallengeExpired, err)
	}
	span.SetAttributes(attribute.String("identity.id", claims.Subject), attribute.String("challenge.jti", claims.ID))
	expiresAt := claims.ExpiresAtTime()

	// Reserve before comparing: at most MaxAttempts codes are ever evaluated
	// per challenge.
	reserved := false
	if s.Ledger != nil && s.MaxAttempts > 0 {
		ok, err := s.Ledger.ReserveAttempt(ctx, claims.ID, s.MaxAttempts, expiresAt)
		if err != nil {
			s.Metrics.Verification(observability.OutcomeError)
			return VerifyResult{}, fmt.Errorf("reserve attempt: %w", err)
		}
		if !ok {
			s.Metrics.Verification(observability.OutcomeTooManyAttempts)
			return VerifyResult{}, ErrTooManyAttempts
		}
		reserved = true
	}

	if !s.Codec.MatchCode(claims, code) {
		log.Info("wrong code", "identity_id", claims.Subject, "jti", claims.ID)
		s.Metrics.Verification(observability.OutcomeInvalidCode)
		return VerifyResult{}, ErrInvalidCode
	}

	if reserved {
		if err := s.Ledger.ReleaseAttempt(ctx, claims.ID); err != nil {
			slogx.LogError(log, "release attempt", err, "jti", claims.ID)
		}
	}

	identity, err := s.Store.Identities().GetIdentityByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.Verification(observability.OutcomeNotFound)
			return VerifyResult{}, ErrIdentityNotFound
		}
		s.Metrics.Verification(observability.OutcomeError)
		return VerifyResult{}, fmt.Errorf("lookup identity: %w", err)
	}

	session, err := s.Sessions.Issue(identity.ID, 0)
	if err != nil {
		s.Metrics.Verification(observability.OutcomeError)
		return VerifyResult{}, fmt.Errorf("issue session: %w", err)
	}

	// Consume last: a failure above leaves the challenge redeemable.
	if s.Ledger != nil && s.SingleUse {
		if err := s.Ledger.Consume(ctx, claims.ID, s.Codec.Now(), expiresAt); err != nil {
			if errors.Is(err, store.ErrAlreadyConsumed) {
				log.Warn("challenge replayed", "identity_id", claims.Subject, "jti", claims.ID)
				s.Metrics.Verification(observability.OutcomeReplayed)
				return VerifyResult{}, ErrChallengeUsed
			}
			s.Metrics.Verification(observability.OutcomeError)
			return VerifyResult{}, fmt.Errorf("consume challenge: %w", err)
		}
	}

	log.Info("login verified", "identity_id", identity.ID)
	s.Metrics.Verification(observability.OutcomeVerified)
	return VerifyResult{Identity: identity, Session: session}, nil
}
