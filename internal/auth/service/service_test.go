package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/delivery"
	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef-service")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeSender struct {
	mu   sync.Mutex
	sent []delivery.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg delivery.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) last(t *testing.T) delivery.Message {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent, "no message sent")
	return s.sent[len(s.sent)-1]
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fixture struct {
	store        *sqlite.Store
	codec        *jwtx.Codec
	clock        *fakeClock
	sender       *fakeSender
	code         int
	challenges   *service.ChallengeService
	registration *service.RegistrationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	clock := &fakeClock{t: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)}
	codec, err := jwtx.NewCodec(testSecret, "otpauth", jwtx.WithClock(clock.Now))
	require.NoError(t, err)

	f := &fixture{store: s, codec: codec, clock: clock, sender: &fakeSender{}, code: 482913}
	sessions := &service.SessionService{Codec: codec, TTL: jwtx.DefaultSessionTTL}

	f.challenges = &service.ChallengeService{
		Store:        s,
		Ledger:       s.Challenges(),
		Codec:        codec,
		Sessions:     sessions,
		Sender:       f.sender,
		Provider:     "test",
		SingleUse:    true,
		MaxAttempts:  5,
		GenerateCode: func() (int, error) { return f.code, nil },
	}
	f.registration = &service.RegistrationService{
		Store:    s,
		Sessions: sessions,
	}
	return f
}

func (f *fixture) register(t *testing.T, name, phone string) service.Registration {
	t.Helper()
	reg, err := f.registration.Register(context.Background(), service.RegisterInput{Name: name, PhoneNumber: phone})
	require.NoError(t, err)
	return reg
}
