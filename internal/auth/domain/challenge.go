package domain

import "time"

// IssuedChallenge is what a login hands back to the caller. The code itself
// only travels over the delivery channel.
type IssuedChallenge struct {
	Token     string
	ExpiresAt time.Time
}

// Session is a freshly minted session credential.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
