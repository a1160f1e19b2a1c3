package domain

import (
	"regexp"
	"strings"
)

// phonePattern accepts ten digit mobile numbers starting 6-9.
var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// NormalizePhoneNumber trims s and reports whether it is an acceptable
// mobile number. No other reformatting is done; "+91" prefixes or embedded
// spaces are rejected.
func NormalizePhoneNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, phonePattern.MatchString(s)
}

// NormalizeName trims s and reports whether anything is left.
func NormalizeName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
