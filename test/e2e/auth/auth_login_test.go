//go:build e2e

package auth_test

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/aussiebroadwan/otpauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestSignupLoginVerify walks the full flow against a running container:
// sign up, request a code, redeem it, then call the protected endpoint.
func TestSignupLoginVerify(t *testing.T) {
	c := setupAuthContainer(t, nil)
	client := authsdk.NewSDKClient(c.BaseURL)
	ctx := t.Context()

	signed := signup(t, client, "Asha", "9876543210")

	challenge, err := client.Login(ctx, "9876543210")
	require.NoError(t, err)

	code := c.lastCode(t)
	n, err := strconv.Atoi(code)
	require.NoError(t, err)

	session, err := challenge.Verify(ctx, code)
	require.NoError(t, err)
	require.Equal(t, signed.Identity().ID, session.Identity().ID)

	_, err = challenge.Verify(ctx, fmt.Sprintf("%06d", (n+1)%1_000_000))
	require.Equal(t, 400, authsdk.StatusCode(err))

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "Asha", me.Name)
}

// TestLoginUnknownNumber verifies an unregistered number is told to sign up.
func TestLoginUnknownNumber(t *testing.T) {
	c := setupAuthContainer(t, nil)
	client := authsdk.NewSDKClient(c.BaseURL)

	_, err := client.Login(t.Context(), "9123456789")
	require.True(t, authsdk.IsNotFound(err), "got %v", err)
}

// TestDuplicateSignup verifies the second registration of a number is refused.
func TestDuplicateSignup(t *testing.T) {
	c := setupAuthContainer(t, nil)
	client := authsdk.NewSDKClient(c.BaseURL)

	signup(t, client, "Asha", "9876543210")

	_, err := client.Signup(t.Context(), authsdk.SignupRequest{Name: "Ravi", PhoneNumber: "9876543210"})
	require.Equal(t, 400, authsdk.StatusCode(err))
}

// TestChallengeSingleUse verifies a redeemed code cannot be replayed.
func TestChallengeSingleUse(t *testing.T) {
	c := setupAuthContainer(t, nil)
	client := authsdk.NewSDKClient(c.BaseURL)
	ctx := t.Context()

	signup(t, client, "Asha", "9876543210")
	challenge, err := client.Login(ctx, "9876543210")
	require.NoError(t, err)
	code := c.lastCode(t)

	_, err = challenge.Verify(ctx, code)
	require.NoError(t, err)

	_, err = challenge.Verify(ctx, code)
	require.True(t, authsdk.IsUnauthorized(err), "got %v", err)
}
