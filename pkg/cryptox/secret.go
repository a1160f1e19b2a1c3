package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// Secret sizes in bytes before encoding. HS256 keys should carry at least
// 256 bits.
const (
	SecretSize256 = 32
	SecretSize512 = 64
)

// ErrSecretTooShort is returned for sizes under SecretSize256.
var ErrSecretTooShort = errors.New("cryptox: secret must be at least 32 bytes")

// GenerateSecret returns size random bytes encoded as base64url without
// padding, suitable for AUTH_SECRET.
func GenerateSecret(size int) (string, error) {
	if size < SecretSize256 {
		return "", fmt.Errorf("%w, got %d", ErrSecretTooShort, size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
