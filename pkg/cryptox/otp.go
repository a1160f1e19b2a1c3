package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// One-time codes are six decimal digits without a leading zero.
const (
	CodeMin = 100000
	CodeMax = 999999
)

// maxCodeInputLen caps what CanonicalCode will look at; anything longer
// cannot be a six digit code however many leading zeros it has.
const maxCodeInputLen = 32

var codeSpan = big.NewInt(CodeMax - CodeMin + 1)

// GenerateNumericCode returns a code drawn uniformly from [CodeMin, CodeMax].
func GenerateNumericCode() (int, error) {
	return GenerateNumericCodeFrom(rand.Reader)
}

// GenerateNumericCodeFrom is GenerateNumericCode over an explicit entropy
// source. rand.Int rejects out-of-range samples, so there is no modulo bias.
func GenerateNumericCodeFrom(r io.Reader) (int, error) {
	n, err := rand.Int(r, codeSpan)
	if err != nil {
		return 0, fmt.Errorf("failed to generate one-time code: %w", err)
	}
	return CodeMin + int(n.Int64()), nil
}

// FormatCode renders a code the way it is sent to users.
func FormatCode(code int) string {
	return strconv.Itoa(code)
}

// CanonicalCode normalises user input to the decimal form of its numeric
// value: "042" and "42" are the same code. ok is false for empty or
// non-digit input.
func CanonicalCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxCodeInputLen {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0", true
	}
	return s, true
}

// DigestCode is a keyed commitment to code under binding.
func DigestCode(key []byte, binding, code string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(binding))
	mac.Write([]byte{0})
	mac.Write([]byte(code))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// EqualDigest compares two digests in constant time.
func EqualDigest(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
