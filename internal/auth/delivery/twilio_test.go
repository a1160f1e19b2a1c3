package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/require"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeCreator struct {
	got  *openapi.CreateMessageParams
	resp *openapi.ApiV2010Message
	err  error
}

func (f *fakeCreator) CreateMessage(p *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.got = p
	return f.resp, f.err
}

func TestTwilioSenderSend(t *testing.T) {
	msg := Message{Kind: KindLoginCode, Destination: "+919876543210", Body: "Your OTP for login is 123456. It is valid for 5 minutes."}

	t.Run("sends params", func(t *testing.T) {
		sid := "SM123"
		fake := &fakeCreator{resp: &openapi.ApiV2010Message{Sid: &sid}}
		s := newTwilioSender(fake, "+15005550006")

		require.NoError(t, s.Send(context.Background(), msg))
		require.NotNil(t, fake.got)
		require.Equal(t, "+919876543210", *fake.got.To)
		require.Equal(t, "+15005550006", *fake.got.From)
		require.Equal(t, msg.Body, *fake.got.Body)
	})

	t.Run("unverified destination", func(t *testing.T) {
		fake := &fakeCreator{err: &twclient.TwilioRestError{Code: 21608, Status: 400, Message: "unverified"}}
		err := newTwilioSender(fake, "+15005550006").Send(context.Background(), msg)

		require.ErrorIs(t, err, ErrUnverifiedDestination)
		oopsErr, ok := oops.AsOops(err)
		require.True(t, ok)
		require.Equal(t, "DELIVERY_UNVERIFIED", oopsErr.Code())
	})

	t.Run("other rest error", func(t *testing.T) {
		fake := &fakeCreator{err: &twclient.TwilioRestError{Code: 21211, Status: 400, Message: "invalid to"}}
		err := newTwilioSender(fake, "+15005550006").Send(context.Background(), msg)

		require.Error(t, err)
		require.NotErrorIs(t, err, ErrUnverifiedDestination)
	})

	t.Run("transport error", func(t *testing.T) {
		fake := &fakeCreator{err: errors.New("dial tcp: timeout")}
		err := newTwilioSender(fake, "+15005550006").Send(context.Background(), msg)
		require.ErrorContains(t, err, "timeout")
	})

	t.Run("cancelled context skips the call", func(t *testing.T) {
		fake := &fakeCreator{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.ErrorIs(t, newTwilioSender(fake, "+1").Send(ctx, msg), context.Canceled)
		require.Nil(t, fake.got)
	})
}

func TestNewTwilioSenderValidates(t *testing.T) {
	_, err := NewTwilioSender(TwilioConfig{AccountSID: "AC1", AuthToken: "tok"})
	require.Error(t, err)

	s, err := NewTwilioSender(TwilioConfig{AccountSID: "AC1", AuthToken: "tok", From: "+15005550006"})
	require.NoError(t, err)
	require.NotNil(t, s)
}
