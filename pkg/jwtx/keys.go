package jwtx

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretSize is the shortest shared secret accepted at startup.
const MinSecretSize = 32

// derivedKeySize matches the HS256 block output.
const derivedKeySize = sha256.Size

var ErrWeakSecret = errors.New("jwtx: signing secret must be at least 32 bytes")

// DeriveKey expands the shared secret into an independent key for one use.
// The same secret and info always produce the same key.
func DeriveKey(secret []byte, info string) ([]byte, error) {
	if len(secret) < MinSecretSize {
		return nil, ErrWeakSecret
	}

	key := make([]byte, derivedKeySize)
	r := hkdf.New(sha256.New, secret, nil, []byte("otpauth/"+info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("jwtx: derive %s key: %w", info, err)
	}
	return key, nil
}
