package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Validate() error
}

// HS256Signer signs with a symmetric key. The kid header names the purpose
// so the verifier can reject a token aimed at the wrong audience cheaply.
type HS256Signer struct {
	kid string
	key []byte
}

// NewSignerHS256 creates an HS256 signer. key should come from DeriveKey.
func NewSignerHS256(kid string, key []byte) (*HS256Signer, error) {
	s := &HS256Signer{kid: kid, key: key}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }
func (s *HS256Signer) KID() string { return s.kid }

// Sign turns claims into a compact JWT.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// Validate checks the signer has usable key material.
func (s *HS256Signer) Validate() error {
	if s.kid == "" {
		return errors.New("jwtx: signer kid is empty")
	}
	if len(s.key) < derivedKeySize {
		return errors.New("jwtx: HS256 key too short")
	}
	return nil
}
