//go:build e2e

package auth_test

import (
	"fmt"
	"testing"

	"github.com/aussiebroadwan/otpauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// defaultLimits removes the relaxed test overrides.
var defaultLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "",
	"RATELIMIT_STRICT_WINDOW_SEC": "",
	"RATELIMIT_STRICT_BURST":      "",
	"RATELIMIT_DELIVERY_REQUESTS": "",
	"RATELIMIT_DELIVERY_BURST":    "",
}

// TestRateLimitLoginEndpoint verifies the strict per-IP limit (5 req/min) on login.
func TestRateLimitLoginEndpoint(t *testing.T) {
	c := setupAuthContainer(t, defaultLimits)
	client := authsdk.NewSDKClient(c.BaseURL)

	for i := range 5 {
		_, err := client.Login(t.Context(), fmt.Sprintf("91234567%02d", i))
		require.True(t, authsdk.IsNotFound(err), "request %d should not be rate limited: %v", i+1, err)
	}

	_, err := client.Login(t.Context(), "9123456799")
	require.True(t, authsdk.IsRateLimited(err), "Should be rate limited after 5 requests, got %v", err)
}

// TestRateLimitDeliveryPerNumber verifies one number cannot be sent more
// than 3 codes in the window, even when the IP budget remains.
func TestRateLimitDeliveryPerNumber(t *testing.T) {
	c := setupAuthContainer(t, map[string]string{
		"RATELIMIT_DELIVERY_REQUESTS": "",
		"RATELIMIT_DELIVERY_BURST":    "",
	})
	client := authsdk.NewSDKClient(c.BaseURL)

	signup(t, client, "Asha", "9876543210")

	for i := range 3 {
		_, err := client.Login(t.Context(), "9876543210")
		require.NoError(t, err, "request %d", i+1)
	}

	_, err := client.Login(t.Context(), "9876543210")
	require.True(t, authsdk.IsRateLimited(err), "got %v", err)
}
