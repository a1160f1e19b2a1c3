package delivery

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/otpauth/pkg/slogx"
	"github.com/samber/oops"
	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// twilioUnverifiedNumber is Twilio's error for sending from a trial account
// to a number that is not on its verified list.
const twilioUnverifiedNumber = 21608

// messageCreator is the part of the Twilio API client we call. Satisfied by
// (*twilio.RestClient).Api.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioConfig holds the account credentials and sending number.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	api  messageCreator
	from string
}

// NewTwilioSender builds a sender using the account credentials.
func NewTwilioSender(cfg TwilioConfig) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, oops.Code("DELIVERY_CONFIG_INVALID").
			Errorf("twilio requires account sid, auth token and sending number")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilioSender(client.Api, cfg.From), nil
}

func newTwilioSender(api messageCreator, from string) *TwilioSender {
	return &TwilioSender{api: api, from: from}
}

// Send submits msg. The Twilio client has no context support, so ctx is only
// checked before the call.
func (s *TwilioSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(msg.Destination)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		var restErr *twclient.TwilioRestError
		if errors.As(err, &restErr) {
			if restErr.Code == twilioUnverifiedNumber {
				return oops.Code("DELIVERY_UNVERIFIED").
					With("destination", msg.Destination).
					With("twilio_code", restErr.Code).
					Wrap(ErrUnverifiedDestination)
			}
			return oops.Code("DELIVERY_FAILED").
				With("destination", msg.Destination).
				With("twilio_code", restErr.Code).
				With("twilio_status", restErr.Status).
				Wrapf(err, "twilio rejected message")
		}
		return oops.Code("DELIVERY_FAILED").With("destination", msg.Destination).Wrap(err)
	}

	if resp != nil && resp.Sid != nil {
		slogx.FromContext(ctx).Debug("sms accepted", "sid", *resp.Sid)
	}
	return nil
}
