package authsdk

import (
	"context"
	"net/http"
	"time"
)

// Signup registers a new identity. The returned Session carries the
// short-lived sign-up token.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/signup", req, "")
	if err != nil {
		return nil, err
	}

	var out SignupResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}

	return &Session{client: c, token: out.SessionToken, identity: out.Identity}, nil
}

// Challenge is a pending login waiting for the code sent over SMS.
type Challenge struct {
	client    *SDKClient
	Token     string
	ExpiresAt time.Time
}

// Login asks the service to send a one-time code to phoneNumber.
func (c *SDKClient) Login(ctx context.Context, phoneNumber string) (*Challenge, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/login", LoginRequest{PhoneNumber: phoneNumber}, "")
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &Challenge{client: c, Token: out.ChallengeToken, ExpiresAt: out.ExpiresAt}, nil
}

// Verify exchanges the received code for a session.
func (ch *Challenge) Verify(ctx context.Context, code string) (*Session, error) {
	return ch.client.VerifyOTP(ctx, ch.Token, code)
}

// VerifyOTP exchanges a challenge token and code for a session.
func (c *SDKClient) VerifyOTP(ctx context.Context, challengeToken, code string) (*Session, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/verify-otp", VerifyOTPRequest{Code: Code(code)}, challengeToken)
	if err != nil {
		return nil, err
	}

	var out VerifyOTPResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &Session{client: c, token: out.SessionToken, identity: out.Identity}, nil
}
