package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/observability"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/pkg/idx"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultSignupSessionTTL is the lifetime of the session handed out at
// sign-up, before the number has been proven.
const DefaultSignupSessionTTL = time.Hour

type RegistrationService struct {
	Store      store.Store
	Sessions   *SessionService
	Metrics    *observability.Metrics
	SessionTTL time.Duration
}

type RegisterInput struct {
	Name        string
	PhoneNumber string
	Address     string
}

type Registration struct {
	Identity domain.Identity
	Session  domain.Session
}

// Register creates an identity for an unused phone number and returns it
// with a short lived session. Nothing is written when validation fails, and
// no session is issued unless the identity was committed.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (_ Registration, err error) {
	ctx, span := tracer.Start(ctx, "registration.register")
	defer func() { endSpan(span, err) }()

	name, ok := domain.NormalizeName(in.Name)
	if !ok {
		s.Metrics.Registration(observability.OutcomeInvalidInput)
		return Registration{}, ErrInvalidName
	}
	phone, ok := domain.NormalizePhoneNumber(in.PhoneNumber)
	if !ok {
		s.Metrics.Registration(observability.OutcomeInvalidInput)
		return Registration{}, ErrInvalidPhoneNumber
	}

	now := s.Sessions.Codec.Now()
	identity := domain.Identity{
		ID:          idx.NewAt(now).String(),
		Name:        name,
		PhoneNumber: phone,
		Address:     strings.TrimSpace(in.Address),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Identities().GetIdentityByPhoneNumber(ctx, phone)
		switch {
		case err == nil:
			return ErrIdentityExists
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("lookup identity: %w", err)
		}

		if err := tx.Identities().CreateIdentity(ctx, identity); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrIdentityExists
			}
			return fmt.Errorf("create identity: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrIdentityExists) {
			s.Metrics.Registration(observability.OutcomeExists)
		} else {
			s.Metrics.Registration(observability.OutcomeError)
		}
		return Registration{}, err
	}
	span.SetAttributes(attribute.String("identity.id", identity.ID))

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSignupSessionTTL
	}
	session, err := s.Sessions.Issue(identity.ID, ttl)
	if err != nil {
		s.Metrics.Registration(observability.OutcomeError)
		return Registration{}, fmt.Errorf("issue session: %w", err)
	}

	slogx.FromContext(ctx).Info("identity registered", "identity_id", identity.ID, "phone_number", phone)
	s.Metrics.Registration(observability.OutcomeCreated)
	return Registration{Identity: identity, Session: session}, nil
}
