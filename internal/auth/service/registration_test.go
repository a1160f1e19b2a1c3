package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/service"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/aussiebroadwan/otpauth/pkg/idx"
	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates identity and short session", func(t *testing.T) {
		f := newFixture(t)

		reg, err := f.registration.Register(ctx, service.RegisterInput{
			Name:        "  Asha ",
			PhoneNumber: "9876543210",
			Address:     " 12 MG Road ",
		})
		require.NoError(t, err)
		require.True(t, idx.Valid(reg.Identity.ID))
		require.Equal(t, "Asha", reg.Identity.Name)
		require.Equal(t, "12 MG Road", reg.Identity.Address)
		require.Equal(t, f.clock.Now().Add(time.Hour), reg.Session.ExpiresAt)

		claims, err := f.codec.Verify(jwtx.PurposeSession, reg.Session.Token)
		require.NoError(t, err)
		require.Equal(t, reg.Identity.ID, claims.Subject)

		stored, err := f.store.Identities().GetIdentityByPhoneNumber(ctx, "9876543210")
		require.NoError(t, err)
		require.Equal(t, reg.Identity, stored)
	})

	t.Run("session ttl is configurable", func(t *testing.T) {
		f := newFixture(t)
		f.registration.SessionTTL = 10 * time.Minute

		reg := f.register(t, "Asha", "9876543210")
		require.Equal(t, f.clock.Now().Add(10*time.Minute), reg.Session.ExpiresAt)
	})

	t.Run("second registration conflicts and leaves the first intact", func(t *testing.T) {
		f := newFixture(t)
		first := f.register(t, "Asha", "9876543210")

		_, err := f.registration.Register(ctx, service.RegisterInput{Name: "Imposter", PhoneNumber: "9876543210"})
		require.ErrorIs(t, err, service.ErrIdentityExists)

		stored, err := f.store.Identities().GetIdentityByPhoneNumber(ctx, "9876543210")
		require.NoError(t, err)
		require.Equal(t, first.Identity, stored)
	})

	t.Run("invalid input writes nothing", func(t *testing.T) {
		f := newFixture(t)

		tests := []struct {
			name string
			in   service.RegisterInput
			want error
		}{
			{"empty name", service.RegisterInput{Name: "   ", PhoneNumber: "9876543210"}, service.ErrInvalidName},
			{"short number", service.RegisterInput{Name: "Asha", PhoneNumber: "987654321"}, service.ErrInvalidPhoneNumber},
			{"bad leading digit", service.RegisterInput{Name: "Asha", PhoneNumber: "1876543210"}, service.ErrInvalidPhoneNumber},
			{"letters", service.RegisterInput{Name: "Asha", PhoneNumber: "98765abcde"}, service.ErrInvalidPhoneNumber},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				reg, err := f.registration.Register(ctx, tt.in)
				require.ErrorIs(t, err, tt.want)
				require.Empty(t, reg.Session.Token)
			})
		}

		for _, phone := range []string{"9876543210", "987654321", "1876543210", "98765abcde"} {
			_, err := f.store.Identities().GetIdentityByPhoneNumber(ctx, phone)
			require.ErrorIs(t, err, store.ErrNotFound)
		}
	})
}

func TestIdentityService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := f.register(t, "Asha", "9876543210")
	ids := &service.IdentityService{Store: f.store}

	got, err := ids.Get(ctx, reg.Identity.ID)
	require.NoError(t, err)
	require.Equal(t, reg.Identity, got)

	_, err = ids.Get(ctx, "01J00000000000000000000000")
	require.ErrorIs(t, err, service.ErrIdentityNotFound)
}
