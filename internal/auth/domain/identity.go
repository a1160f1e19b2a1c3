package domain

import "time"

// Identity is a registered phone number. It is created once at sign-up and
// never mutated by the auth flow.
type Identity struct {
	ID          string
	Name        string
	PhoneNumber string
	Address     string // optional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
