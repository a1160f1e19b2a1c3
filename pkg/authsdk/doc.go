/*
Package authsdk provides a client SDK for the otpauth phone-number login service.

# Overview

Create an SDKClient to reach the public endpoints:

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

Sign up once per phone number. The returned Session holds a short-lived token:

	session, err := client.Signup(ctx, authsdk.SignupRequest{
		Name:        "Asha",
		PhoneNumber: "9876543210",
	})

Log in with a one-time code delivered over SMS:

	challenge, err := client.Login(ctx, "9876543210")
	// ... the user reads the code from the SMS
	session, err := challenge.Verify(ctx, "482913")

	me, err := session.Me(ctx)

# Errors

Non-success responses are returned as *APIError carrying the HTTP status and
the service's message. Helpers classify the common cases:

	if authsdk.IsNotFound(err) {
		// phone number not registered, sign up first
	}
	if authsdk.IsUnauthorized(err) {
		// challenge expired or session rejected, start over
	}
*/
package authsdk
