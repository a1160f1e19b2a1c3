package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the otpauth service. It covers the public
// sign-up and login endpoints and hands out Sessions once a session token
// has been obtained.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSession wraps an existing session token, for example one persisted by
// the caller after a previous login.
func (c *SDKClient) NewSession(sessionToken string) *Session {
	return &Session{client: c, token: sessionToken}
}
